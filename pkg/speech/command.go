package speech

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// normalWordsPerMinute is what command line engines consider rate 1.0.
const normalWordsPerMinute = 175

func wordsPerMinute(rate float64) int {
	if rate <= 0 || math.IsNaN(rate) {
		rate = 1
	}
	return int(math.Round(normalWordsPerMinute * rate))
}

// commandEngine reads text using an external command which plays the audio
// itself and exits once it is done.
type commandEngine struct {
	binary    string
	t         Type
	arguments func(u Utterance) []string
	voices    func(ctx context.Context, binary string) (Voices, error)
}

func (this *commandEngine) available() error {
	if _, err := exec.LookPath(this.binary); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (this *commandEngine) Start(ctx context.Context, u Utterance) (Process, error) {
	cmd := exec.CommandContext(ctx, this.binary, this.arguments(u)...)
	cmd.Stdin = strings.NewReader(u.Text)

	result := &commandProcess{cmd: cmd}
	cmd.Stderr = &result.stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("cannot start %s: %w", this.binary, err)
	}
	return result, nil
}

func (this *commandEngine) Voices(ctx context.Context) (Voices, error) {
	return this.voices(ctx, this.binary)
}

func (this *commandEngine) GetType() Type {
	return this.t
}

func (this *commandEngine) Close() error {
	return nil
}

type commandProcess struct {
	cmd    *exec.Cmd
	stderr bytes.Buffer
	paused bool
	mutex  sync.Mutex
}

func (this *commandProcess) Wait() error {
	if err := this.cmd.Wait(); err != nil {
		if msg := strings.TrimSpace(this.stderr.String()); msg != "" {
			return fmt.Errorf("%s failed: %w: %s", this.cmd.Path, err, msg)
		}
		return fmt.Errorf("%s failed: %w", this.cmd.Path, err)
	}
	return nil
}

func (this *commandProcess) Pause() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.paused {
		return nil
	}
	if err := suspendProcess(this.cmd.Process); err != nil {
		return err
	}
	this.paused = true
	return nil
}

func (this *commandProcess) Resume() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if !this.paused {
		return nil
	}
	if err := continueProcess(this.cmd.Process); err != nil {
		return err
	}
	this.paused = false
	return nil
}

func runForOutput(ctx context.Context, binary string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s failed: %w: %s", binary, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

func formatWordsPerMinute(rate float64) string {
	return strconv.Itoa(wordsPerMinute(rate))
}

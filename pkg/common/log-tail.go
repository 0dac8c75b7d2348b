package common

import (
	"bytes"
	"io"
	"sync"
)

// NewLogTail creates a LogTail which keeps at most maxLines lines. Lines
// longer than maxLineLength bytes are truncated.
func NewLogTail(maxLines, maxLineLength int) *LogTail {
	if maxLines < 1 {
		maxLines = 1
	}
	if maxLineLength < 1 {
		maxLineLength = 1
	}
	return &LogTail{
		lines:         make([][]byte, maxLines),
		maxLineLength: maxLineLength,
	}
}

// LogTail is an io.Writer which remembers the latest lines written to it.
// It is used to keep log output away from a full-screen terminal while
// still being able to present it.
type LogTail struct {
	OnNewLine func(line []byte)

	pending       []byte
	lines         [][]byte
	next          int
	length        int
	maxLineLength int

	mutex sync.RWMutex
}

func (this *LogTail) Write(p []byte) (n int, err error) {
	var added [][]byte

	this.mutex.Lock()
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			this.pending = append(this.pending, p...)
			n += len(p)
			break
		}
		this.pending = append(this.pending, p[:i]...)
		added = append(added, this.addLine(this.pending))
		this.pending = this.pending[:0]
		n += i + 1
		p = p[i+1:]
	}
	if len(this.pending) > this.maxLineLength {
		added = append(added, this.addLine(this.pending))
		this.pending = this.pending[:0]
	}
	onNewLine := this.OnNewLine
	this.mutex.Unlock()

	if onNewLine != nil {
		for _, line := range added {
			onNewLine(line)
		}
	}
	return n, nil
}

func (this *LogTail) addLine(line []byte) []byte {
	line = bytes.TrimRight(line, "\r")
	if len(line) > this.maxLineLength {
		line = line[:this.maxLineLength]
	}
	buf := bytes.Clone(line)
	if buf == nil {
		buf = []byte{}
	}
	this.lines[this.next] = buf
	this.next = (this.next + 1) % len(this.lines)
	if this.length < len(this.lines) {
		this.length++
	}
	return buf
}

func (this *LogTail) Len() int {
	this.mutex.RLock()
	defer this.mutex.RUnlock()
	return this.length
}

// Last returns up to n of the most recent lines, oldest first.
func (this *LogTail) Last(n int) []string {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	if n > this.length {
		n = this.length
	}
	if n <= 0 {
		return nil
	}
	result := make([]string, n)
	start := this.next - n
	if start < 0 {
		start += len(this.lines)
	}
	for i := 0; i < n; i++ {
		result[i] = string(this.lines[(start+i)%len(this.lines)])
	}
	return result
}

func (this *LogTail) WriteTo(to io.Writer) (n int64, err error) {
	for _, line := range this.Last(this.Len()) {
		wn, wErr := io.WriteString(to, line+"\n")
		n += int64(wn)
		if wErr != nil {
			return n, wErr
		}
	}
	return n, nil
}

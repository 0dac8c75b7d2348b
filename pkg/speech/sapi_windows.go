package speech

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

const (
	sapiFlagAsync             = 1
	sapiFlagPurgeBeforeSpeak  = 2
	sapiWaitInterval          = 50
	sapiPollIntervalWhenPause = 100 * time.Millisecond
)

// sapiEngine reads text using the Windows Speech API. All COM calls happen
// on one locked OS thread.
type sapiEngine struct {
	requests chan func()
	closed   chan struct{}
	voice    *ole.IDispatch
}

func newSapiEngine() (Engine, error) {
	result := &sapiEngine{
		requests: make(chan func()),
		closed:   make(chan struct{}),
	}
	initErr := make(chan error, 1)
	go result.loop(initErr)
	if err := <-initErr; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return result, nil
}

func (this *sapiEngine) loop(initErr chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		initErr <- fmt.Errorf("failed to initialize ole: %w", err)
		return
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("SAPI.SpVoice")
	if err != nil {
		initErr <- fmt.Errorf("cannot create SAPI.SpVoice: %w", err)
		return
	}
	voice, err := unknown.QueryInterface(ole.IID_IDispatch)
	unknown.Release()
	if err != nil {
		initErr <- fmt.Errorf("cannot access SAPI.SpVoice: %w", err)
		return
	}
	defer voice.Release()
	this.voice = voice

	initErr <- nil
	for {
		select {
		case fn := <-this.requests:
			fn()
		case <-this.closed:
			_, _ = oleutil.CallMethod(voice, "Speak", "", sapiFlagAsync|sapiFlagPurgeBeforeSpeak)
			return
		}
	}
}

func (this *sapiEngine) do(fn func() error) error {
	result := make(chan error, 1)
	select {
	case this.requests <- func() { result <- fn() }:
	case <-this.closed:
		return ErrClosed
	}
	return <-result
}

func (this *sapiEngine) Start(ctx context.Context, u Utterance) (Process, error) {
	if err := this.do(func() error {
		if u.Voice != "" {
			if err := this.selectVoice(u.Voice); err != nil {
				return err
			}
		}
		if _, err := oleutil.PutProperty(this.voice, "Rate", sapiRate(u.Rate)); err != nil {
			return fmt.Errorf("cannot set speech rate: %w", err)
		}
		if _, err := oleutil.CallMethod(this.voice, "Speak", u.Text, sapiFlagAsync|sapiFlagPurgeBeforeSpeak); err != nil {
			return fmt.Errorf("cannot speak: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &sapiProcess{this, ctx}, nil
}

func (this *sapiEngine) selectVoice(id string) error {
	tokens, err := oleutil.CallMethod(this.voice, "GetVoices")
	if err != nil {
		return fmt.Errorf("cannot retrieve voices: %w", err)
	}
	defer func() { _ = tokens.Clear() }()

	return eachSapiToken(tokens.ToIDispatch(), func(token *ole.IDispatch) (bool, error) {
		tokenId, err := oleutil.GetProperty(token, "Id")
		if err != nil {
			return false, err
		}
		defer func() { _ = tokenId.Clear() }()
		if tokenId.ToString() != id {
			return true, nil
		}
		if _, err := oleutil.PutPropertyRef(this.voice, "Voice", token); err != nil {
			return false, fmt.Errorf("cannot select voice %s: %w", id, err)
		}
		return false, nil
	})
}

func (this *sapiEngine) Voices(context.Context) (result Voices, _ error) {
	err := this.do(func() error {
		tokens, err := oleutil.CallMethod(this.voice, "GetVoices")
		if err != nil {
			return fmt.Errorf("cannot retrieve voices: %w", err)
		}
		defer func() { _ = tokens.Clear() }()

		return eachSapiToken(tokens.ToIDispatch(), func(token *ole.IDispatch) (bool, error) {
			v, err := describeSapiToken(token)
			if err != nil {
				return false, err
			}
			result = append(result, v)
			return true, nil
		})
	})
	return result, err
}

func eachSapiToken(tokens *ole.IDispatch, consumer func(*ole.IDispatch) (bool, error)) error {
	count, err := oleutil.GetProperty(tokens, "Count")
	if err != nil {
		return fmt.Errorf("cannot count voices: %w", err)
	}
	n := int(count.Val)
	_ = count.Clear()

	for i := 0; i < n; i++ {
		item, err := oleutil.CallMethod(tokens, "Item", i)
		if err != nil {
			return fmt.Errorf("cannot retrieve voice #%d: %w", i, err)
		}
		canContinue, err := consumer(item.ToIDispatch())
		_ = item.Clear()
		if err != nil || !canContinue {
			return err
		}
	}
	return nil
}

func describeSapiToken(token *ole.IDispatch) (Voice, error) {
	id, err := oleutil.GetProperty(token, "Id")
	if err != nil {
		return Voice{}, fmt.Errorf("cannot retrieve voice id: %w", err)
	}
	defer func() { _ = id.Clear() }()

	description, err := oleutil.CallMethod(token, "GetDescription")
	if err != nil {
		return Voice{}, fmt.Errorf("cannot retrieve voice description: %w", err)
	}
	defer func() { _ = description.Clear() }()

	var language string
	if lcid, err := oleutil.CallMethod(token, "GetAttribute", "Language"); err == nil {
		language = sapiLanguage(lcid.ToString())
		_ = lcid.Clear()
	}

	return Voice{
		ID:       id.ToString(),
		Name:     description.ToString(),
		Language: language,
	}, nil
}

func (this *sapiEngine) GetType() Type {
	return TypeSapi
}

func (this *sapiEngine) Close() error {
	select {
	case <-this.closed:
	default:
		close(this.closed)
	}
	return nil
}

type sapiProcess struct {
	engine *sapiEngine
	ctx    context.Context
}

func (this *sapiProcess) Wait() error {
	for {
		select {
		case <-this.ctx.Done():
			_ = this.engine.do(func() error {
				_, err := oleutil.CallMethod(this.engine.voice, "Speak", "", sapiFlagAsync|sapiFlagPurgeBeforeSpeak)
				return err
			})
			return this.ctx.Err()
		default:
		}

		var done bool
		if err := this.engine.do(func() error {
			v, err := oleutil.CallMethod(this.engine.voice, "WaitUntilDone", sapiWaitInterval)
			if err != nil {
				return err
			}
			defer func() { _ = v.Clear() }()
			done, _ = v.Value().(bool)
			return nil
		}); err != nil {
			return fmt.Errorf("cannot wait for speech: %w", err)
		}
		if done {
			return nil
		}
		time.Sleep(sapiPollIntervalWhenPause)
	}
}

func (this *sapiProcess) Pause() error {
	return this.engine.do(func() error {
		_, err := oleutil.CallMethod(this.engine.voice, "Pause")
		return err
	})
}

func (this *sapiProcess) Resume() error {
	return this.engine.do(func() error {
		_, err := oleutil.CallMethod(this.engine.voice, "Resume")
		return err
	})
}

// sapiRate maps a rate multiplier to SAPI's -10..10 scale where 10 is about
// three times as fast as 0.
func sapiRate(rate float64) int {
	if rate <= 0 || math.IsNaN(rate) {
		return 0
	}
	v := int(math.Round(10 * math.Log(rate) / math.Log(3)))
	return max(-10, min(10, v))
}

var lcidToLanguage = map[uint64]string{
	0x0409: "en-US",
	0x0809: "en-GB",
	0x0c09: "en-AU",
	0x1009: "en-CA",
	0x1409: "en-NZ",
	0x1809: "en-IE",
	0x1c09: "en-ZA",
	0x4009: "en-IN",
	0x0407: "de-DE",
	0x040c: "fr-FR",
	0x0c0a: "es-ES",
	0x0410: "it-IT",
	0x0411: "ja-JP",
	0x0419: "ru-RU",
	0x0804: "zh-CN",
}

// sapiLanguage converts the hexadecimal LCID list of a voice token
// (for example "409;9") into a language tag.
func sapiLanguage(plain string) string {
	first := strings.TrimSpace(strings.Split(plain, ";")[0])
	lcid, err := strconv.ParseUint(first, 16, 32)
	if err != nil {
		return ""
	}
	if v, ok := lcidToLanguage[lcid]; ok {
		return v
	}
	if lcid&0x3ff == 0x09 {
		return "en"
	}
	return ""
}

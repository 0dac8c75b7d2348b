package lesson

import (
	"fmt"
	"math"

	"dario.cat/mergo"
)

const (
	DefaultTimerDuration = 50
	DefaultSpeed         = 1.0
	DefaultMinSpeed      = 0.5
	DefaultMaxSpeed      = 2.0
	DefaultSpeedStep     = 0.1

	// WarningSeconds is the remaining time from which the countdown is
	// flagged as running out.
	WarningSeconds = 10
)

func NewSettings() Settings {
	return Settings{
		TimerDuration: DefaultTimerDuration,
		DefaultSpeed:  DefaultSpeed,
		MinSpeed:      DefaultMinSpeed,
		MaxSpeed:      DefaultMaxSpeed,
		SpeedStep:     DefaultSpeedStep,
	}
}

type Settings struct {
	TimerDuration int     `json:"timerDuration" yaml:"timerDuration" toml:"timerDuration"`
	DefaultSpeed  float64 `json:"defaultSpeed" yaml:"defaultSpeed" toml:"defaultSpeed"`
	MinSpeed      float64 `json:"minSpeed" yaml:"minSpeed" toml:"minSpeed"`
	MaxSpeed      float64 `json:"maxSpeed" yaml:"maxSpeed" toml:"maxSpeed"`
	SpeedStep     float64 `json:"speedStep" yaml:"speedStep" toml:"speedStep"`
}

// WithDefaults returns a copy where every zero field was replaced by its
// default value. Missing speeds are derived from the given ones, so a
// document which only sets minSpeed or maxSpeed stays valid.
func (this Settings) WithDefaults() (Settings, error) {
	result := this
	if err := mergo.Merge(&result, NewSettings()); err != nil {
		return Settings{}, fmt.Errorf("cannot apply default settings: %w", err)
	}
	if this.MaxSpeed == 0 && result.MaxSpeed < result.MinSpeed {
		result.MaxSpeed = result.MinSpeed
	}
	if this.MinSpeed == 0 && result.MinSpeed > result.MaxSpeed {
		result.MinSpeed = result.MaxSpeed
	}
	if this.DefaultSpeed == 0 && result.MinSpeed > 0 && result.MinSpeed <= result.MaxSpeed {
		result.DefaultSpeed = result.ClampSpeed(DefaultSpeed)
	}
	return result, nil
}

func (this Settings) Validate() error {
	if this.TimerDuration <= 0 {
		return fmt.Errorf("timerDuration has to be positive but is %d", this.TimerDuration)
	}
	if this.SpeedStep <= 0 {
		return fmt.Errorf("speedStep has to be positive but is %v", this.SpeedStep)
	}
	if this.MinSpeed <= 0 {
		return fmt.Errorf("minSpeed has to be positive but is %v", this.MinSpeed)
	}
	if this.MinSpeed > this.DefaultSpeed || this.DefaultSpeed > this.MaxSpeed {
		return fmt.Errorf("speeds have to satisfy minSpeed (%v) <= defaultSpeed (%v) <= maxSpeed (%v)", this.MinSpeed, this.DefaultSpeed, this.MaxSpeed)
	}
	return nil
}

// ClampSpeed bounds the given speech rate to [MinSpeed, MaxSpeed] and snaps
// it to the step grid which starts at MinSpeed. MaxSpeed itself is always
// reachable even if it is not on the grid.
func (this Settings) ClampSpeed(v float64) float64 {
	if math.IsNaN(v) || v <= this.MinSpeed {
		return this.MinSpeed
	}
	if v >= this.MaxSpeed {
		return this.MaxSpeed
	}
	if this.SpeedStep <= 0 {
		return v
	}
	steps := math.Round((v - this.MinSpeed) / this.SpeedStep)
	result := roundSpeed(this.MinSpeed + steps*this.SpeedStep)
	if result > this.MaxSpeed {
		return this.MaxSpeed
	}
	return result
}

// StepSpeed moves the given speech rate by n steps (negative means slower).
func (this Settings) StepSpeed(v float64, n int) float64 {
	return this.ClampSpeed(this.ClampSpeed(v) + float64(n)*this.SpeedStep)
}

func roundSpeed(v float64) float64 {
	return math.Round(v*1000) / 1000
}

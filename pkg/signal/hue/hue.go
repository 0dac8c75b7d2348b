package hue

import (
	"fmt"
	"sync"
	"time"

	"github.com/amimof/huego"
	log "github.com/echocat/slf4g"

	"github.com/blaubaer/talk-practice/pkg/common"
	"github.com/blaubaer/talk-practice/pkg/credentials"
	"github.com/blaubaer/talk-practice/pkg/signal"
)

const appName = "github.com/blaubaer/talk-practice"

// Hue switches the matching lights and groups of a Philips Hue bridge to
// the color of the current session state.
type Hue struct {
	conf         *Configuration
	saveConfFunc func() error

	lights      []huego.Light
	groups      []huego.Group
	credentials credentials.Credentials
	mutex       sync.Mutex
}

func (this *Hue) Initialize(conf *Configuration, saveConfFunc func() error) error {
	this.conf = conf
	this.saveConfFunc = saveConfFunc

	v, err := this.resolveCredentials()
	if err != nil {
		return err
	}
	this.credentials = v

	if err := this.Update(); err != nil {
		return err
	}

	log.With("lights", len(this.lights)).
		With("groups", len(this.groups)).
		With("bridge", v.HueBridge).
		Info("Hue signal ready.")

	return nil
}

func (this *Hue) Update() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	bridge, err := this.bridge()
	if err != nil {
		return err
	}

	lights, err := this.discoverLights(bridge)
	if err != nil {
		return err
	}
	groups, err := this.discoverGroups(bridge)
	if err != nil {
		return err
	}

	this.lights = lights
	this.groups = groups

	return nil
}

// matches reports whether the light or group with the given name is
// handled. Without a name pattern nothing is handled.
func (this *Hue) matches(name string) bool {
	return this.conf.Name.HasContent() && this.conf.Name.MatchString(name)
}

func (this *Hue) discoverLights(bridge *huego.Bridge) (result []huego.Light, _ error) {
	if this.conf.Kinds.Has(KindLight) {
		candidates, err := bridge.GetLights()
		if err != nil {
			return nil, fmt.Errorf("cannot discover lights of bridge %s: %w", bridge.Host, err)
		}
		for _, candidate := range candidates {
			if this.matches(candidate.Name) {
				if candidate.State == nil {
					candidate.State = &huego.State{}
				}
				result = append(result, candidate)
			}
		}
	}
	return
}

func (this *Hue) discoverGroups(bridge *huego.Bridge) (result []huego.Group, _ error) {
	if this.conf.Kinds.Has(KindGroup) {
		candidates, err := bridge.GetGroups()
		if err != nil {
			return nil, fmt.Errorf("cannot discover groups of bridge %s: %w", bridge.Host, err)
		}
		for _, candidate := range candidates {
			if this.matches(candidate.Name) {
				if candidate.State == nil {
					candidate.State = &huego.State{}
				}
				result = append(result, candidate)
			}
		}
	}
	return
}

func (this *Hue) Ensure(ctx signal.Context) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	bridge, err := this.bridge()
	if err != nil {
		return err
	}
	state := ctx.State()
	for i, v := range this.lights {
		if err := this.ensureLight(bridge, state, &v); err != nil {
			return err
		}
		this.lights[i] = v
	}
	for i, v := range this.groups {
		if err := this.ensureGroup(bridge, state, &v); err != nil {
			return err
		}
		this.groups[i] = v
	}
	return nil
}

// targetState returns the state the light has to be switched to or nil if
// it is already in the requested state.
func (this *Hue) targetState(state signal.State, current *huego.State) *huego.State {
	color, on := this.conf.ColorOf(state)
	if !on {
		if current.On {
			return &huego.State{On: false}
		}
		return nil
	}
	if !current.On || current.Bri != color.Brightness || current.Hue != color.Hue || current.Sat != color.Saturation {
		return &huego.State{
			On:  true,
			Bri: color.Brightness,
			Hue: color.Hue,
			Sat: color.Saturation,
		}
	}
	return nil
}

func (this *Hue) ensureLight(bridge *huego.Bridge, state signal.State, v *huego.Light) error {
	if target := this.targetState(state, v.State); target != nil {
		if _, err := bridge.SetLightState(v.ID, *target); err != nil {
			return fmt.Errorf("cannot switch to hue light state %v for light %q#%d: %w", state, v.Name, v.ID, err)
		}
		v.State = target
	}
	return nil
}

func (this *Hue) ensureGroup(bridge *huego.Bridge, state signal.State, v *huego.Group) error {
	if target := this.targetState(state, v.State); target != nil {
		if _, err := bridge.SetGroupState(v.ID, *target); err != nil {
			return fmt.Errorf("cannot switch to hue light state %v for group %q#%d: %w", state, v.Name, v.ID, err)
		}
		v.State = target
	}
	return nil
}

func (this *Hue) bridge() (*huego.Bridge, error) {
	v := this.credentials
	if v.IsHueZero() {
		return nil, fmt.Errorf("not paired with hue bridge")
	}
	return huego.New(v.HueBridge, v.HueUser), nil
}

func (this *Hue) resolveCredentials() (credentials.Credentials, error) {
	if u := this.conf.User; u != "" && !this.conf.Pair {
		bridge, err := this.discoverBridge()
		if err != nil {
			return credentials.Credentials{}, err
		}

		return credentials.Credentials{
			HueBridge: bridge.Host,
			HueUser:   u,
		}, nil
	}

	if this.conf.Pair {
		return this.pair()
	}

	v, err := this.readCredentials()
	if err != nil {
		return credentials.Credentials{}, err
	}
	if !v.IsHueZero() {
		return v, nil
	}

	return this.pair()
}

func (this *Hue) discoverBridge() (*huego.Bridge, error) {
	if this.conf.Bridge != "" {
		return &huego.Bridge{
			Host: this.conf.Bridge,
		}, nil
	}

	result, err := huego.Discover()
	if err != nil {
		return nil, fmt.Errorf("cannot discover hue bridge: %w", err)
	}
	return result, nil
}

func (this *Hue) pair() (credentials.Credentials, error) {
	bridge, err := this.discoverBridge()
	if err != nil {
		return credentials.Credentials{}, err
	}

	for {
		log.Info("Wait for hue link button been pressed...")
		user, err := bridge.CreateUser(appName)
		if apiErr, ok := common.AsError[*huego.APIError](err); ok && apiErr.Type == 101 {
			time.Sleep(1 * time.Second)
			continue
		} else if err != nil {
			return credentials.Credentials{}, fmt.Errorf("was not able to pair with %s: %w", bridge.Host, err)
		}

		v := credentials.Credentials{
			HueBridge: bridge.Host,
			HueUser:   user,
		}
		if err := this.storeCredentials(v); err != nil {
			log.WithError(err).
				Warn("Cannot store credentials. The app will work now, but next time the pairing might be required again.")
		}

		log.With("bridge", bridge.Host).
			Info("Successful paired.")
		return v, nil
	}
}

func (this *Hue) Dispose() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.lights = nil
	this.groups = nil
	this.saveConfFunc = nil
	return nil
}

func (this *Hue) GetType() signal.Type {
	return signal.TypeHue
}

func (this *Hue) readCredentials() (credentials.Credentials, error) {
	var v credentials.Credentials
	if _, err := v.ReadFromStore(); err != nil {
		return credentials.Credentials{}, err
	}

	if v.HueBridge == "" {
		v.HueBridge = this.conf.Bridge
	}
	if v.HueUser == "" {
		v.HueUser = this.conf.User
	}

	return v, nil
}

func (this *Hue) storeCredentials(v credentials.Credentials) error {
	var existing credentials.Credentials
	supported, err := existing.ReadFromStore()
	if err != nil {
		return err
	}
	if supported {
		existing.HueBridge = v.HueBridge
		existing.HueUser = v.HueUser
		_, err := existing.WriteToStore()
		return err
	}

	this.conf.Bridge = v.HueBridge
	this.conf.User = v.HueUser
	return this.saveConfFunc()
}

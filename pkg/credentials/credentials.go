package credentials

import (
	"encoding/json"
)

const appName = "github.com/blaubaer/talk-practice"

// Credentials are the secrets the signals need to access their targets.
// They are kept in the credential store of the operating system if there
// is one, otherwise in the configuration file.
type Credentials struct {
	HueBridge string `json:"hue_bridge,omitempty"`
	HueUser   string `json:"hue_user,omitempty"`

	HomeAssistantServer string `json:"homeAssistant_server,omitempty"`
	HomeAssistantToken  string `json:"homeAssistant_token,omitempty"`
}

func (this *Credentials) IsZero() bool {
	return this.IsHueZero() && this.IsHomeAssistantZero()
}

func (this *Credentials) IsHueZero() bool {
	return this.HueBridge == "" || this.HueUser == ""
}

func (this *Credentials) IsHomeAssistantZero() bool {
	return this.HomeAssistantServer == "" || this.HomeAssistantToken == ""
}

func (this *Credentials) MarshalBinary() (data []byte, err error) {
	return json.Marshal(this)
}

func (this *Credentials) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, this)
}

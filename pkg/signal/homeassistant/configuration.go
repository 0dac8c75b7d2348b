package homeassistant

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/blaubaer/talk-practice/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		EntityId:         fmt.Sprintf("sensor.%s_talk_practice", computerId),
		DeadZoneInterval: time.Second * 60,
	}
}

var forbiddenComputerIdChars = regexp.MustCompile("[^a-z0-9_]")

func normalizeEntityIdPrefix(id string) string {
	id = strings.ToLower(id)
	id = strings.TrimSpace(id)
	id = strings.ReplaceAll(id, "-", "_")
	id = strings.ReplaceAll(id, ".", "_")
	id = forbiddenComputerIdChars.ReplaceAllString(id, "_")
	return id
}

var computerId = func() string {
	if result, err := os.Hostname(); err == nil {
		return normalizeEntityIdPrefix(result)
	}

	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Errorf("cannot generate entity id: %v", err))
	}

	return hex.EncodeToString(buf)
}()

type Configuration struct {
	Server   string `yaml:"server,omitempty"`
	Token    string `yaml:"token,omitempty"`
	EntityId string `yaml:"entityId"`

	DeadZoneInterval time.Duration `yaml:"deadZoneInterval,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("signal.homeAssistant.server", "URL of the Home Assistant instance.").
		Envar(common.Envar("signal.homeAssistant.server")).
		StringVar(&this.Server)
	using.Flag("signal.homeAssistant.token", "Long life token to access the Home Assistant instance.").
		Envar(common.Envar("signal.homeAssistant.token")).
		StringVar(&this.Token)
	using.Flag("signal.homeAssistant.entityId", "Entity ID to store the session state to.").
		Envar(common.Envar("signal.homeAssistant.entityId")).
		StringVar(&this.EntityId)
	using.Flag("signal.homeAssistant.deadZoneInterval", "Duration for how long a local state is used to compare to. To prevent too often check of the remote system. As this is the source of truth.").
		Envar(common.Envar("signal.homeAssistant.deadZoneInterval")).
		DurationVar(&this.DeadZoneInterval)
}

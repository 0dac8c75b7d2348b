package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/talk-practice/pkg/common"
	"github.com/blaubaer/talk-practice/pkg/credentials"
	"github.com/blaubaer/talk-practice/pkg/signal"
)

const (
	DefaultServer = "http://homeassistant.local:8123/"

	requestTimeout = time.Second * 60
)

// Homeassistant publishes the session state as an entity of a Home
// Assistant instance, which can be used by automations.
type Homeassistant struct {
	conf         *Configuration
	saveConfFunc func() error
	mutex        sync.RWMutex

	lastState atomic.Pointer[state]

	client http.Client
}

type state struct {
	timestamp time.Time
	state     string
	session   stateAttrSession
}

func (this *state) isEqualTo(o *state) bool {
	return this.state == o.state &&
		this.session.isEqualTo(&o.session)
}

func (this *Homeassistant) Initialize(conf *Configuration, saveConfFunc func() error) error {
	this.conf = conf
	this.saveConfFunc = saveConfFunc

	if err := this.Update(); err != nil {
		return err
	}

	log.With("entityId", conf.EntityId).
		Info("Home Assistant signal ready.")

	return nil
}

func (this *Homeassistant) Update() error {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	rsp, err := this.do("GET", "/api/")
	if err != nil {
		return err
	}
	_ = rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d - %s", rsp.StatusCode, rsp.Status)
	}

	return nil
}

func (this *Homeassistant) Ensure(ctx signal.Context) error {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	snapshot := ctx.Snapshot()
	target := state{
		state:     ctx.State().String(),
		timestamp: time.Now(),
		session: stateAttrSession{
			Lesson:      snapshot.LessonID,
			LessonTitle: snapshot.LessonTitle,
			Question:    snapshot.QuestionIndex,
			Total:       snapshot.Total,
		},
	}

	logger := log.With("entityId", this.conf.EntityId)

	if v := this.lastState.Load(); v != nil {
		if v.timestamp.Add(this.conf.DeadZoneInterval).After(time.Now()) {
			if v.isEqualTo(&target) {
				logger.Debug("Entity is already in requested state (while dead zone timeout). No updated needed.")
				return nil
			}
		}
	}

	rsp, err := this.do("GET", "/api/states/"+this.conf.EntityId)
	if err != nil {
		return err
	}
	defer func() {
		_ = rsp.Body.Close()
	}()

	current := state{
		timestamp: time.Now(),
	}
	attributes := make(map[string]any)
	forceUpdate := false

	switch rsp.StatusCode {
	case http.StatusOK:
		var gRsp stateGetResponse
		if err := json.NewDecoder(rsp.Body).Decode(&gRsp); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}

		current.state = gRsp.State
		current.session = gRsp.getAttrSession()
		if v := gRsp.Attributes; v != nil {
			attributes = v
		}

	case http.StatusNotFound:
		logger.Info("Entity not found. It will be created now...")
		forceUpdate = true
		attributes["icon"] = "mdi:account-voice"
		attributes["friendly_name"] = "Talk practice"

	default:
		return fmt.Errorf("unexpected status code: %d - %s", rsp.StatusCode, rsp.Status)
	}

	if !forceUpdate && target.isEqualTo(&current) {
		logger.Debug("Entity is already in requested state. No updated needed.")
		this.lastState.Store(&current)
		return nil
	}

	sReq := statePostRequest{
		State:      target.state,
		Attributes: attributes,
	}
	sReq.setAttrSession(target.session, snapshot.Progress())

	sReqB, err := json.Marshal(sReq)
	if err != nil {
		return err
	}

	sRsp, err := this.do("POST", "/api/states/"+this.conf.EntityId, func(req *http.Request) error {
		req.Body = io.NopCloser(bytes.NewReader(sReqB))
		req.ContentLength = int64(len(sReqB))
		req.Header.Set("Content-Type", "application/json")
		return nil
	})
	if err != nil {
		return err
	}
	_ = sRsp.Body.Close()
	if sRsp.StatusCode != http.StatusOK && sRsp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status code: %d - %s", sRsp.StatusCode, sRsp.Status)
	}

	logger.With("state", target.state).
		Debug("Entity updated.")
	this.lastState.Store(&target)

	return nil
}

func (this *Homeassistant) loadCredentials() (credentials.Credentials, error) {
	var v credentials.Credentials
	if _, err := v.ReadFromStore(); err != nil {
		return credentials.Credentials{}, err
	}

	if v.HomeAssistantServer == "" {
		v.HomeAssistantServer = this.conf.Server
	}
	if v.HomeAssistantToken == "" {
		v.HomeAssistantToken = this.conf.Token
	}

	return v, nil
}

func (this *Homeassistant) storeCredentials(cred credentials.Credentials) error {
	var existing credentials.Credentials
	supported, err := existing.ReadFromStore()
	if err != nil {
		return err
	}
	if supported {
		existing.HomeAssistantServer = cred.HomeAssistantServer
		existing.HomeAssistantToken = cred.HomeAssistantToken
		_, err := existing.WriteToStore()
		return err
	}

	this.conf.Server = cred.HomeAssistantServer
	this.conf.Token = cred.HomeAssistantToken
	return this.saveConfFunc()
}

type resolveCredentialsReason uint

const (
	resolveCredentialsReasonDefault resolveCredentialsReason = iota
	resolveCredentialsReasonInvalidToken
)

func (this *Homeassistant) resolveCredentials(reason resolveCredentialsReason) (credentials.Credentials, error) {
	fail := func(err error) (credentials.Credentials, error) {
		return credentials.Credentials{}, err
	}

	cred, err := this.loadCredentials()
	if err != nil {
		return fail(err)
	}

	if reason == resolveCredentialsReasonDefault && !cred.IsHomeAssistantZero() {
		return cred, nil
	}

	switch reason {
	case resolveCredentialsReasonInvalidToken:
		log.With("server", cred.HomeAssistantServer).
			Error("Home Assistant rejected the long live token.")
	default:
		log.Info("Server URL and long live token required to access Home Assistant.")
	}

	for {
		cred.HomeAssistantServer = ""
		cred.HomeAssistantToken = ""
		if err := common.RequestStringContentIfRequiredFromTerminal(&cred.HomeAssistantServer, fmt.Sprintf("Server URL (empty = %s)", DefaultServer), true, false); err != nil {
			return fail(fmt.Errorf("cannot request server url: %w", err))
		}
		if cred.HomeAssistantServer == "" {
			cred.HomeAssistantServer = DefaultServer
		}
		if err := common.RequestStringContentIfRequiredFromTerminal(&cred.HomeAssistantToken, "Token", false, true); err != nil {
			return fail(fmt.Errorf("cannot request token: %w", err))
		}

		serverOk, tokenOk, err := this.check(cred)
		if err != nil {
			return fail(err)
		}
		if serverOk && tokenOk {
			if err := this.storeCredentials(cred); err != nil {
				return fail(fmt.Errorf("cannot store credentials: %w", err))
			}
			return cred, nil
		}

		if !serverOk {
			log.With("server", cred.HomeAssistantServer).
				Error("Provided Home Assistant's server URL is invalid.")
		} else {
			log.With("server", cred.HomeAssistantServer).
				Error("Provided Home Assistant's long live token is invalid.")
		}
	}
}

func (this *Homeassistant) check(cred credentials.Credentials) (serverOk, tokenOk bool, err error) {
	rsp, err := this.request(cred, "GET", "/api/")
	if err != nil {
		return false, false, err
	}
	_ = rsp.Body.Close()
	switch rsp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true, false, nil
	case http.StatusOK:
		return true, true, nil
	default:
		return false, false, nil
	}
}

func (this *Homeassistant) request(cred credentials.Credentials, method, path string, cb ...func(req *http.Request) error) (*http.Response, error) {
	ctx, cancelFunc := context.WithTimeout(context.Background(), requestTimeout)
	defer cancelFunc()

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(cred.HomeAssistantServer, "/")+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Authorization", "Bearer "+cred.HomeAssistantToken)
	for _, cbi := range cb {
		if err := cbi(req); err != nil {
			return nil, err
		}
	}

	rsp, err := this.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to access %v: %w", req.URL, err)
	}

	// The body has to stay readable after the context is canceled.
	body, err := io.ReadAll(rsp.Body)
	_ = rsp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %v: %w", req.URL, err)
	}
	rsp.Body = io.NopCloser(bytes.NewReader(body))

	return rsp, nil
}

func (this *Homeassistant) do(method, path string, cb ...func(req *http.Request) error) (*http.Response, error) {
	cred, err := this.resolveCredentials(resolveCredentialsReasonDefault)
	if err != nil {
		return nil, err
	}

	for {
		rsp, err := this.request(cred, method, path, cb...)
		if err != nil {
			return nil, err
		}

		switch rsp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			_ = rsp.Body.Close()
			if cred, err = this.resolveCredentials(resolveCredentialsReasonInvalidToken); err != nil {
				return nil, err
			}
		default:
			return rsp, nil
		}
	}
}

func (this *Homeassistant) Dispose() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.saveConfFunc = nil
	this.lastState.Store(nil)
	return nil
}

func (this *Homeassistant) GetType() signal.Type {
	return signal.TypeHomeAssistant
}

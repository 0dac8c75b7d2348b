//go:build !windows

package speech

func newSapiEngine() (Engine, error) {
	return nil, ErrUnavailable
}

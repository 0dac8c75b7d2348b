//go:build !windows

package credentials

// ReadFromStore does nothing on this platform; the credentials are kept in
// the configuration file instead.
func (this *Credentials) ReadFromStore() (supported bool, err error) {
	return false, nil
}

func (this *Credentials) WriteToStore() (supported bool, err error) {
	return false, nil
}

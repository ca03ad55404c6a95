package hosts

import (
	"errors"
	"fmt"
	"runtime"
)

var ErrUnsupportedOS = errors.New("unsupported operating system")

// Platform locates the hosts file and the line delimiter it is written with.
type Platform struct {
	Path          string
	LineDelimiter string
}

// Delimiters maps the names accepted on the command line to delimiters.
var Delimiters = map[string]string{
	"lf":   "\n",
	"crlf": "\r\n",
	"cr":   "\r",
}

// PlatformFor returns the hosts file location for goos.
func PlatformFor(goos string) (Platform, error) {
	switch goos {
	case "linux", "darwin", "freebsd", "openbsd", "netbsd":
		return Platform{Path: "/etc/hosts", LineDelimiter: "\n"}, nil
	case "windows":
		return Platform{Path: `C:\Windows\System32\drivers\etc\hosts`, LineDelimiter: "\r\n"}, nil
	default:
		return Platform{}, fmt.Errorf("%w: %s", ErrUnsupportedOS, goos)
	}
}

// CurrentPlatform returns the hosts file location for the running OS.
func CurrentPlatform() (Platform, error) {
	return PlatformFor(runtime.GOOS)
}

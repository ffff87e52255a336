package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(role string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "host":
		return hostTemplate, nil
	case "ig":
		return igTemplate, nil
	default:
		return "", fmt.Errorf("unknown config role: %s", role)
	}
}

func WriteTemplate(path, role string, overwrite bool) error {
	template, err := Template(role)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const hostTemplate = `[session]
send_address = "127.0.0.1:8004"
receive_address = ":8005"
interface = ""
mtu = 1432
async_poll_interval = "1ms"
dial_attempts = 5

[log]
level = "info"

[metrics]
address = "127.0.0.1:9105"

[host]
database_number = 1
frame_timeout = "1s"
`

const igTemplate = `[session]
send_address = "127.0.0.1:8005"
receive_address = ":8004"
interface = ""
mtu = 1432
async_poll_interval = "1ms"
dial_attempts = 5

[log]
level = "info"

[metrics]
address = "127.0.0.1:9106"

[ig]
database_number = 1
frame_rate = 60.0
`

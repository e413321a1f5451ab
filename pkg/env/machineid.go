// Package env provides host identity defaults.
package env

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID salts the machine ID so it isn't exposed on the broker.
const AppID = "gokart"

// MachineID retrieves the unique ID identifying the machine, or
// "local" if the platform doesn't provide one.
func MachineID() string {
	id, err := machineid.ProtectedID(AppID)
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return "local"
	}
	return ShortID(id)
}

// ShortID truncates a hex ID to be used in topic names.
func ShortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

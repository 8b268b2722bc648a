package config

import (
	"encoding/json"
	"os"

	"github.com/carTloyal123/shoppi/internal/flagx"
	"github.com/carTloyal123/shoppi/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent
// fields stay nil and leave the runtime Config untouched.
type JsonConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	OperationTimeout   *timex.Duration `json:"operation_timeout"`
	StorePath          *string         `json:"store_path"`
	StoreKey           *string         `json:"store_key"`
	DigestScheme       *string         `json:"digest_scheme"`
	VerifyLocalDigest  *bool           `json:"verify_local_digest"`
	RevalidateAfter    *timex.Duration `json:"revalidate_after"`
	LogLevel           *string         `json:"log_level"`
	CheckInterval      *timex.Duration `json:"check_interval"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c / -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setIf(&cfg.StorePath, jc.StorePath)
	setIf(&cfg.StoreKey, jc.StoreKey)
	setIf(&cfg.DigestScheme, jc.DigestScheme)
	setIf(&cfg.VerifyLocalDigest, jc.VerifyLocalDigest)
	setIf(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OperationTimeout != nil {
		cfg.OperationTimeout = jc.OperationTimeout.Duration
	}
	if jc.RevalidateAfter != nil {
		cfg.RevalidateAfter = jc.RevalidateAfter.Duration
	}
	if jc.CheckInterval != nil {
		cfg.CheckInterval = jc.CheckInterval.Duration
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

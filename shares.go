package main

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// sharesVersion is written into every encoded distribution blob.
//
// Version 1 layout:
//
//	{"version":1,"shares":{"<friend>":[{"spender":"..","description":"..","amount":1.5,"paid":false}]}}
//
// Rows without a "version" number hold the bare friend -> payments object.
const sharesVersion = 1

type sharesEnvelope struct {
	Version int    `json:"version"`
	Shares  Shares `json:"shares"`
}

func encodeShares(s Shares) (string, error) {
	b, err := json.Marshal(sharesEnvelope{Version: sharesVersion, Shares: s})
	if err != nil {
		return "", fmt.Errorf("failed to encode distribution: %w", err)
	}
	return string(b), nil
}

func decodeShares(blob string) (Shares, error) {
	if !gjson.Valid(blob) {
		return nil, fmt.Errorf("failed to decode distribution: invalid json")
	}

	version := gjson.Get(blob, "version")
	if version.Type != gjson.Number {
		var legacy Shares
		if err := json.Unmarshal([]byte(blob), &legacy); err != nil {
			return nil, fmt.Errorf("failed to decode legacy distribution: %w", err)
		}
		return legacy, nil
	}

	if version.Int() != sharesVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSharesVersion, version.Int())
	}

	var env sharesEnvelope
	if err := json.Unmarshal([]byte(blob), &env); err != nil {
		return nil, fmt.Errorf("failed to decode distribution: %w", err)
	}
	return env.Shares, nil
}

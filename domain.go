package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

type User struct {
	Id           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Payment is one line item of a split. Spender is left empty when the
// payment is already keyed by its spender.
type Payment struct {
	Spender     string  `json:"spender,omitempty"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Paid        bool    `json:"paid"`
}

// Shares maps each friend to the payments they take part in.
type Shares map[string][]Payment

type Distribution struct {
	Id           int      `json:"id"`
	UserId       int      `json:"user_id"`
	Amount       float64  `json:"amount"`
	Friends      []string `json:"friends"`
	Spender      string   `json:"spender"`
	Description  string   `json:"description"`
	Distribution Shares   `json:"distribution"`
}

type SpenderLedger struct {
	Spender  string
	Payments []Payment
}

// FriendSummary is the spender -> payments object sent for one friend,
// kept in the order the keys appear in the request body.
type FriendSummary []SpenderLedger

func (f *FriendSummary) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("invalid friend summary json")
	}

	result := gjson.ParseBytes(data)
	if result.Type == gjson.Null {
		return nil
	}
	if !result.IsObject() {
		return fmt.Errorf("friend summary must be an object, got %s", result.Type)
	}

	ledgers := FriendSummary{}
	var decodeErr error
	result.ForEach(func(key, value gjson.Result) bool {
		var payments []Payment
		if err := json.Unmarshal([]byte(value.Raw), &payments); err != nil {
			decodeErr = fmt.Errorf("payments of spender %q: %w", key.String(), err)
			return false
		}
		ledgers = append(ledgers, SpenderLedger{Spender: key.String(), Payments: payments})
		return true
	})
	if decodeErr != nil {
		return decodeErr
	}

	*f = ledgers
	return nil
}

package model

import "github.com/disgoorg/snowflake/v2"

// CurrentUser is the account the event stream belongs to. It is known once READY has been
// applied.
type CurrentUser struct {
	ID            snowflake.ID `json:"id"`
	Username      string       `json:"username"`
	GlobalName    *string      `json:"global_name,omitempty"`
	Discriminator string       `json:"discriminator"`
	Avatar        *string      `json:"avatar,omitempty"`
	Banner        *string      `json:"banner,omitempty"`
	AccentColor   *int         `json:"accent_color,omitempty"`
	Bot           bool         `json:"bot"`
	System        bool         `json:"system"`
	MFAEnabled    bool         `json:"mfa_enabled"`
	Verified      bool         `json:"verified"`
	Locale        *string      `json:"locale,omitempty"`
	Email         *string      `json:"email,omitempty"`
	Flags         int          `json:"flags"`
	PremiumType   int          `json:"premium_type"`
	PublicFlags   int          `json:"public_flags"`
}

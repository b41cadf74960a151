package token

import "time"

// Token is a decoded token record. Records are immutable once decoded.
type Token interface {
	Kind() Kind
	Created() time.Time
}

// Expiring is a token that carries an expiration time.
type Expiring interface {
	Token
	Expires() time.Time
}

// WebkdcFactor records the authentication factors a subject has
// established with the WebKDC.
type WebkdcFactor struct {
	Subject    string    `json:"subject"`
	Factors    string    `json:"factors"`
	Creation   time.Time `json:"creation"`
	Expiration time.Time `json:"expiration"`
}

func (t *WebkdcFactor) Kind() Kind         { return KindWebkdcFactor }
func (t *WebkdcFactor) Created() time.Time { return t.Creation }
func (t *WebkdcFactor) Expires() time.Time { return t.Expiration }

// App is the token a WebAuth server issues to the browser once a user has
// authenticated to it.
type App struct {
	Subject        string    `json:"subject"`
	InitialFactors string    `json:"initial_factors,omitempty"`
	SessionFactors string    `json:"session_factors,omitempty"`
	LOA            uint32    `json:"loa,omitempty"`
	Creation       time.Time `json:"creation"`
	Expiration     time.Time `json:"expiration"`
}

func (t *App) Kind() Kind         { return KindApp }
func (t *App) Created() time.Time { return t.Creation }
func (t *App) Expires() time.Time { return t.Expiration }

// ID is the token the WebKDC returns to a WebAuth server to identify a user.
type ID struct {
	Subject        string    `json:"subject"`
	AuthType       string    `json:"subject_auth"`
	AuthData       []byte    `json:"subject_auth_data,omitempty"`
	InitialFactors string    `json:"initial_factors,omitempty"`
	SessionFactors string    `json:"session_factors,omitempty"`
	LOA            uint32    `json:"loa,omitempty"`
	Creation       time.Time `json:"creation"`
	Expiration     time.Time `json:"expiration"`
}

func (t *ID) Kind() Kind         { return KindID }
func (t *ID) Created() time.Time { return t.Creation }
func (t *ID) Expires() time.Time { return t.Expiration }

// WebkdcProxy lets the WebKDC act on behalf of a user without asking for
// credentials again.
type WebkdcProxy struct {
	Subject        string    `json:"subject"`
	ProxySubject   string    `json:"proxy_subject"`
	ProxyType      string    `json:"proxy_type"`
	ProxyData      []byte    `json:"proxy_data,omitempty"`
	InitialFactors string    `json:"initial_factors,omitempty"`
	LOA            uint32    `json:"loa,omitempty"`
	Creation       time.Time `json:"creation"`
	Expiration     time.Time `json:"expiration"`
}

func (t *WebkdcProxy) Kind() Kind         { return KindWebkdcProxy }
func (t *WebkdcProxy) Created() time.Time { return t.Creation }
func (t *WebkdcProxy) Expires() time.Time { return t.Expiration }

// Error carries a WebKDC error back to a WebAuth server. It never expires.
type Error struct {
	Code     uint32    `json:"error_code"`
	Message  string    `json:"error_message"`
	Creation time.Time `json:"creation"`
}

func (t *Error) Kind() Kind         { return KindError }
func (t *Error) Created() time.Time { return t.Creation }

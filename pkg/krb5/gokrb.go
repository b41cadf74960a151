package krb5

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/jcmturner/gokrb5.v7/client"
	"gopkg.in/jcmturner/gokrb5.v7/config"
	"gopkg.in/jcmturner/gokrb5.v7/keytab"
	"gopkg.in/jcmturner/gokrb5.v7/krberror"
	"gopkg.in/jcmturner/gokrb5.v7/messages"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
)

// OpInitKeytab names keytab login in diagnostic lines.
const OpInitKeytab = "webauth_krb5_init_via_keytab"

// Gokrb is a Library backed by gokrb5.
type Gokrb struct {
	// ConfPath is the krb5.conf to load. Required.
	ConfPath string
	// KeytabPath is an optional keytab.
	KeytabPath string
	// Principal builds a keytab client when set, as user or user@REALM.
	Principal string
}

// GokrbSession is the Session produced by Gokrb.
type GokrbSession struct {
	Config *config.Config
	Keytab *keytab.Keytab
	Client *client.Client

	err error
}

// NewContext implements Library.
func (g Gokrb) NewContext() (Session, Status) {
	if g.ConfPath == "" {
		return nil, StatusInvalidContext
	}

	sess := &GokrbSession{}
	cfg, err := config.Load(g.ConfPath)
	if err != nil {
		// gokrb5 returns a usable config alongside unsupported directives
		var unsupported config.UnsupportedDirective
		if cfg == nil || !errors.As(err, &unsupported) {
			sess.err = err
			return sess, StatusKrb5
		}
	}
	sess.Config = cfg

	if g.KeytabPath == "" {
		return sess, StatusNone
	}
	kt, err := keytab.Load(g.KeytabPath)
	if err != nil {
		sess.err = err
		return sess, StatusKrb5
	}
	sess.Keytab = kt

	if g.Principal != "" {
		user, realm := splitPrincipal(g.Principal, cfg.LibDefaults.DefaultRealm)
		sess.Client = client.NewClientWithKeytab(user, realm, kt, cfg)
	}
	return sess, StatusNone
}

// Realm returns the default realm of the loaded configuration.
func (s *GokrbSession) Realm() string {
	if s.Config == nil {
		return ""
	}
	return s.Config.LibDefaults.DefaultRealm
}

// Login obtains initial credentials for the keytab principal. Failures are
// reported to sink under caller.
func (s *GokrbSession) Login(sink diag.Sink, caller string) error {
	if s.Client == nil {
		err := NewError(StatusLoginFailed, nil)
		Report(sink, err, OpInitKeytab, caller)
		return err
	}
	if err := s.Client.Login(); err != nil {
		s.err = err
		kerr := NewError(StatusKrb5, s)
		Report(sink, kerr, OpInitKeytab, caller)
		return kerr
	}
	return nil
}

// ErrorMessage implements Session.
func (s *GokrbSession) ErrorMessage() string {
	if s.err == nil {
		return ""
	}
	return s.err.Error()
}

// krbErrorCode matches the KRB-ERROR text gokrb5 folds into a Krberror:
// "KRB Error: (24) KDC_ERR_PREAUTH_FAILED ..." or "KRB Error: Unknown ErrorCode 99".
var krbErrorCode = regexp.MustCompile(`KRB Error: (?:\((-?\d+)\)|Unknown ErrorCode (-?\d+))`)

// ErrorCode implements Session. Failures that carry no KRB-ERROR report -1.
func (s *GokrbSession) ErrorCode() int {
	var krbErr messages.KRBError
	if errors.As(s.err, &krbErr) {
		return int(krbErr.ErrorCode)
	}

	// Krberror keeps the KDC reply only as text and has no Unwrap.
	var wrapped krberror.Krberror
	if errors.As(s.err, &wrapped) {
		for _, text := range wrapped.EText {
			m := krbErrorCode.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			digits := m[1]
			if digits == "" {
				digits = m[2]
			}
			if code, err := strconv.Atoi(digits); err == nil {
				return code
			}
		}
	}
	return -1
}

// Close implements Session. It is safe to call more than once.
func (s *GokrbSession) Close() error {
	if s.Client != nil {
		s.Client.Destroy()
		s.Client = nil
	}
	s.Keytab = nil
	s.Config = nil
	return nil
}

func splitPrincipal(principal, defaultRealm string) (string, string) {
	if i := strings.LastIndex(principal, "@"); i >= 0 {
		return principal[:i], principal[i+1:]
	}
	return principal, defaultRealm
}

package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/huddlehq/huddle"
	"github.com/huddlehq/huddle/store"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Claims is the signed token payload. SessionID ties the token to
// one entry in the user's session set, so logout can revoke it.
type Claims struct {
	UserID    int64  `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.StandardClaims
}

type auth struct {
	WS  *store.Workspace
	key []byte
	ttl time.Duration
}

// NewAuthenticater wraps the workspace with an *auth that
// implements the huddle.Authenticater interface. Tokens are signed
// with key and expire after ttl.
func NewAuthenticater(ws *store.Workspace, key []byte, ttl time.Duration) (huddle.Authenticater, error) {
	if len(key) == 0 {
		return nil, errors.New("signing key must not be empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &auth{WS: ws, key: key, ttl: ttl}, nil
}

// Register validates the signup fields, generates the unique handle
// and creates the user. The first registered user becomes the
// global owner.
func (a *auth) Register(email, password, displayName string) (string, *huddle.User, error) {
	if !emailPattern.MatchString(email) {
		return "", nil, huddle.Inputf("%q is not a valid email", email)
	}
	if len(password) < 6 {
		return "", nil, huddle.Inputf("password must be at least 6 characters")
	}
	if n := len([]rune(displayName)); n < 1 || n > 50 {
		return "", nil, huddle.Inputf("display name must be between 1 and 50 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, errors.Wrap(err, "Error hashing password")
	}

	a.WS.Lock()
	defer a.WS.Unlock()

	if a.WS.EmailTaken(email) {
		return "", nil, huddle.Inputf("email %q is already registered", email)
	}

	handle := a.generateHandle(displayName)
	u := a.WS.CreateUser(email, displayName, handle, hashed)

	token, err := a.mintToken(u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Login checks credentials and mints a fresh session token.
func (a *auth) Login(email, password string) (string, *huddle.User, error) {
	a.WS.Lock()
	defer a.WS.Unlock()

	u, ok := a.WS.UserByEmail(email)
	if !ok || u.Removed() {
		logrus.Errorf("Unable to find user with email: %s", email)
		return "", nil, huddle.Accessf("incorrect email or password")
	}

	if err := bcrypt.CompareHashAndPassword(u.Password, []byte(password)); err != nil {
		logrus.Error(err)
		return "", nil, huddle.Accessf("incorrect email or password")
	}

	token, err := a.mintToken(u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Logout revokes the session carried by the token. The token no
// longer verifies afterward.
func (a *auth) Logout(token string) error {
	claims, err := a.parse(token)
	if err != nil {
		return err
	}

	a.WS.Lock()
	defer a.WS.Unlock()

	if !a.WS.DropSession(claims.UserID, claims.SessionID) {
		return huddle.Accessf("session is no longer active")
	}
	return nil
}

// Verify maps a token to its user. Removed users and revoked
// sessions fail with an AccessError.
func (a *auth) Verify(token string) (*huddle.User, error) {
	claims, err := a.parse(token)
	if err != nil {
		return nil, err
	}

	a.WS.Lock()
	defer a.WS.Unlock()

	if !a.WS.HasSession(claims.UserID, claims.SessionID) {
		return nil, huddle.Accessf("session is no longer active")
	}

	u, ok := a.WS.ActiveUser(claims.UserID)
	if !ok {
		return nil, huddle.Accessf("user no longer exists")
	}
	return u, nil
}

// mintToken records a new session id and signs a token carrying it.
// Callers hold the workspace lock.
func (a *auth) mintToken(userID int64) (string, error) {
	session := uuid.New().String()
	claims := &Claims{
		UserID:    userID,
		SessionID: session,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(a.ttl).Unix(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.key)
	if err != nil {
		return "", errors.Wrap(err, "Unable to sign token")
	}

	a.WS.AddSession(userID, session)
	return token, nil
}

func (a *auth) parse(token string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.key, nil
	})
	if err != nil || !tkn.Valid {
		return nil, huddle.Accessf("token is not valid")
	}
	return claims, nil
}

// generateHandle lowercases the alphanumerics of the display name,
// truncates to 20 runes, then appends the smallest free integer
// suffix on collision. Callers hold the workspace lock.
func (a *auth) generateHandle(displayName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(displayName) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	base := b.String()
	if runes := []rune(base); len(runes) > 20 {
		base = string(runes[:20])
	}
	if base == "" {
		base = "member"
	}

	if !a.WS.HandleTaken(base) {
		return base
	}
	for i := 0; ; i++ {
		handle := base + strconv.Itoa(i)
		if !a.WS.HandleTaken(handle) {
			return handle
		}
	}
}

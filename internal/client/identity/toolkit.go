package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Toolkit implements Backend over the Identity Toolkit REST API.
type Toolkit struct {
	// RequestURI is sent with federated sign-ins; the backend requires one
	// even when the token was obtained out of band.
	RequestURI string
	now        func() time.Time
}

// NewToolkit returns a Toolkit backend.
func NewToolkit() *Toolkit {
	return &Toolkit{RequestURI: "http://localhost", now: time.Now}
}

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type idpRequest struct {
	PostBody            string `json:"postBody"`
	RequestURI          string `json:"requestUri"`
	ReturnIdpCredential bool   `json:"returnIdpCredential"`
	ReturnSecureToken   bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	ProviderID   string `json:"providerId"`
	IsNewUser    bool   `json:"isNewUser"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignInWithEmailAndPassword calls accounts:signInWithPassword.
func (t *Toolkit) SignInWithEmailAndPassword(ctx context.Context, session *Session, email, password string) (*UserCredential, error) {
	req := passwordRequest{Email: email, Password: password, ReturnSecureToken: true}

	var resp signInResponse
	if err := t.call(ctx, session, "accounts:signInWithPassword", req, &resp); err != nil {
		return nil, err
	}
	if resp.ProviderID == "" {
		resp.ProviderID = ProviderPassword
	}
	return t.credential(resp), nil
}

// SignInWithCredential calls accounts:signInWithIdp with the provider token.
func (t *Toolkit) SignInWithCredential(ctx context.Context, session *Session, credential Credential) (*UserCredential, error) {
	if credential.IDToken == "" && credential.AccessToken == "" {
		return nil, &AuthError{Code: CodeMissingIDToken, Message: "credential carries no token"}
	}

	post := url.Values{}
	post.Set("providerId", credential.ProviderID)
	if credential.IDToken != "" {
		post.Set("id_token", credential.IDToken)
	}
	if credential.AccessToken != "" {
		post.Set("access_token", credential.AccessToken)
	}

	req := idpRequest{
		PostBody:            post.Encode(),
		RequestURI:          t.RequestURI,
		ReturnIdpCredential: true,
		ReturnSecureToken:   true,
	}

	var resp signInResponse
	if err := t.call(ctx, session, "accounts:signInWithIdp", req, &resp); err != nil {
		return nil, err
	}
	if resp.ProviderID == "" {
		resp.ProviderID = credential.ProviderID
	}
	return t.credential(resp), nil
}

func (t *Toolkit) call(ctx context.Context, session *Session, method string, body any, out any) error {
	if session == nil || session.Endpoint == "" {
		return ErrMissingSession
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}

	endpoint := strings.TrimRight(session.Endpoint, "/") + "/" + method + "?key=" + url.QueryEscape(session.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := session.client().Do(req)
	if err != nil {
		return &AuthError{Code: CodeNetworkFailed, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &AuthError{Code: CodeNetworkFailed, Message: "read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		if jsonErr := json.Unmarshal(data, &er); jsonErr != nil || er.Error.Message == "" {
			return &AuthError{
				Code:    CodeInternal,
				Message: fmt.Sprintf("unexpected status %s", resp.Status),
				Err:     errors.Join(jsonErr, fmt.Errorf("body: %s", string(data))),
			}
		}
		code, detail := codeFromREST(er.Error.Message)
		return &AuthError{Code: code, Message: detail}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &AuthError{Code: CodeInternal, Message: "decode response", Err: err}
	}
	return nil
}

func (t *Toolkit) credential(resp signInResponse) *UserCredential {
	user := &UserIdentity{
		UID:          resp.LocalID,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		ProviderID:   resp.ProviderID,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    t.expiry(resp),
	}
	return &UserCredential{User: user, ProviderID: resp.ProviderID, IsNewUser: resp.IsNewUser}
}

func (t *Toolkit) expiry(resp signInResponse) time.Time {
	if exp, err := tokenExpiry(resp.IDToken); err == nil {
		return exp
	}
	secs, err := strconv.Atoi(resp.ExpiresIn)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	now := time.Now
	if t.now != nil {
		now = t.now
	}
	return now().Add(time.Duration(secs) * time.Second)
}

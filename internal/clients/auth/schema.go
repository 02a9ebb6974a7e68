package auth

import "errors"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	OK      bool   `json:"ok"`
	Token   string `json:"token"`
	Refresh string `json:"refresh"`
	User    *struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

func (r *loginResponse) Validate() error {
	if !r.OK {
		return errors.New("ok is not set")
	}
	if len(r.Token) == 0 {
		return errors.New("token is empty")
	}

	return nil
}

type okResponse struct {
	OK bool `json:"ok"`
}

func (r *okResponse) Validate() error {
	if !r.OK {
		return errors.New("ok is not set")
	}

	return nil
}

type refreshFromTokenRequest struct {
	Refresh string `json:"refresh"`
}

type tokenResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
}

func (r *tokenResponse) Validate() error {
	if !r.OK {
		return errors.New("ok is not set")
	}
	if len(r.Token) == 0 {
		return errors.New("token is empty")
	}

	return nil
}

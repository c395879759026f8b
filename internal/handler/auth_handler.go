/*
Package handler provides HTTP handler functions for user authentication and profile management.
*/
package handler

import (
	"net/http"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"linguachat/internal/app/repo"
	"linguachat/internal/app/user"
	"linguachat/internal/pkg/auth/jwt"
	"linguachat/internal/pkg/errs"
	"linguachat/internal/pkg/logx"
	"linguachat/internal/pkg/randx"
	"linguachat/internal/pkg/req"
	"linguachat/internal/pkg/resp"
)

var (
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	languageRegex = regexp.MustCompile(`^[a-z]{2}$`)
)

type RegisterInput struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	PreferredLanguage string `json:"preferredLanguage,omitempty"`
}

// HandleRegister processes the request to create a new user account.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !emailRegex.MatchString(input.Email) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidEmail))
			return
		}

		passwordLen := utf8.RuneCountInString(input.Password)
		if passwordLen < 6 || passwordLen > 50 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		if input.PreferredLanguage != "" && !languageRegex.MatchString(input.PreferredLanguage) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidLanguage))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		name := input.Name
		if name == "" {
			name, err = randx.DisplayName()
			if err != nil {
				name = "User_X"
			}
		}

		created, err := deps.Repo.CreateUser(r.Context(), user.User{
			Name:              name,
			Email:             input.Email,
			PreferredLanguage: input.PreferredLanguage,
		}, string(hashedPassword))

		if err != nil {
			if err == repo.ErrDuplicate {
				logx.Warn("registration conflict: email already exists", "email", input.Email)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
				return
			}

			logx.Error(err, "failed to create user")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		token, err := issueToken(created, deps.Config.JWTSecret)
		if err != nil {
			logx.Error(err, "failed to generate token after registration")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
			"user":  created,
		})
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies user credentials and issues a JWT token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		account, err := deps.Repo.FindUserByEmail(r.Context(), input.Email)
		if err != nil {
			logx.Warn("login: account fetch failed", "email", input.Email, "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "email", input.Email)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		token, err := issueToken(account.User, deps.Config.JWTSecret)
		if err != nil {
			logx.Error(err, "login: jwt generation failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
			"user":  account.User,
		})
	}
}

// HandleGetMe returns the authenticated user's profile with their live
// presence state.
func HandleGetMe(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		current, err := deps.Repo.FindUserByID(r.Context(), identity.UserID)
		if err != nil {
			logx.Warn("get_me: user not found", "user_id", identity.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user":     current,
			"isOnline": deps.Hub.IsOnline(current.ID),
		})
	}
}

type UpdateProfileInput struct {
	PreferredLanguage string `json:"preferredLanguage"`
}

// HandleUpdateProfile updates the authenticated user's preferred language,
// the value the relay consults when deciding whether to translate.
func HandleUpdateProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		var input UpdateProfileInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !languageRegex.MatchString(input.PreferredLanguage) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidLanguage))
			return
		}

		if err := deps.Repo.SetPreferredLanguage(r.Context(), identity.UserID, input.PreferredLanguage); err != nil {
			if err == repo.ErrNotFound {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}

			logx.Error(err, "update_profile: failed to store preferred language", "user_id", identity.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"preferredLanguage": input.PreferredLanguage,
		})
	}
}

// issueToken signs a 24h identity token for u.
func issueToken(u user.User, secret string) (string, error) {
	payload := &jwt.Payload{
		UserID: u.ID,
		Email:  u.Email,
	}

	return jwt.GenerateToken(payload, secret, jwt.UserIdentityExpiration)
}

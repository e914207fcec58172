package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkraev/tubewave/internal/jwt"
	"github.com/mkraev/tubewave/internal/models"
	"github.com/mkraev/tubewave/internal/repositories"
	"github.com/mkraev/tubewave/internal/services"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockTokener := services.NewMockTokener(ctrl)
	mockSessions := services.NewMockSessionRevoker(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockTokener, mockSessions)

	tests := []struct {
		name         string
		username     string
		password     string
		existingUser *models.UserDB
		readerErr    error
		writerErr    error
		wantErr      error
	}{
		{
			name:     "successful registration",
			username: "alice",
			password: "pw1",
		},
		{
			name:         "user already exists",
			username:     "bob",
			password:     "pass123",
			existingUser: &models.UserDB{UserID: 1, Username: "bob"},
			wantErr:      services.ErrUserAlreadyExists,
		},
		{
			name:      "unique constraint wins the race",
			username:  "carol",
			password:  "pass123",
			writerErr: repositories.ErrUsernameTaken,
			wantErr:   services.ErrUserAlreadyExists,
		},
		{
			name:      "reader error",
			username:  "eve",
			password:  "pass123",
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
		{
			name:      "writer error",
			username:  "dan",
			password:  "pass123",
			writerErr: errors.New("save error"),
			wantErr:   errors.New("save error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader.EXPECT().
				GetByUsername(gomock.Any(), tt.username).
				Return(tt.existingUser, tt.readerErr)

			if tt.existingUser == nil && tt.readerErr == nil {
				mockWriter.EXPECT().
					Save(gomock.Any(), tt.username, gomock.Any()).
					DoAndReturn(func(_ context.Context, username, passwordHash string) (*models.UserDB, error) {
						if tt.writerErr != nil {
							return nil, tt.writerErr
						}
						// Stored value must be a bcrypt hash, never the raw password
						assert.NotEqual(t, tt.password, passwordHash)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(tt.password)))
						return &models.UserDB{UserID: 10, Username: username, PasswordHash: passwordHash}, nil
					})
			}

			user, err := svc.Register(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.username, user.Username)
			}
		})
	}
}

func TestAuthService_Register_EmptyCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := services.NewAuthService(
		services.NewMockUserReader(ctrl),
		services.NewMockUserWriter(ctrl),
		services.NewMockTokener(ctrl),
		services.NewMockSessionRevoker(ctrl),
	)

	_, err := svc.Register(context.Background(), "", "pw")
	assert.ErrorIs(t, err, services.ErrEmptyCredentials)

	_, err = svc.Register(context.Background(), "alice", "")
	assert.ErrorIs(t, err, services.ErrEmptyCredentials)
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockTokener := services.NewMockTokener(ctrl)
	mockSessions := services.NewMockSessionRevoker(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockTokener, mockSessions)

	password := "secret"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	tests := []struct {
		name      string
		username  string
		user      *models.UserDB
		readerErr error
		tokenErr  error
		wantErr   error
		wantToken string
		loginPass string
	}{
		{
			name:      "successful login",
			username:  "alice",
			user:      &models.UserDB{UserID: 1, Username: "alice", PasswordHash: string(hashed)},
			wantToken: "token123",
			loginPass: password,
		},
		{
			name:      "user does not exist",
			username:  "bob",
			user:      nil,
			wantErr:   services.ErrInvalidCredentials,
			loginPass: password,
		},
		{
			name:      "invalid password",
			username:  "carol",
			user:      &models.UserDB{UserID: 2, Username: "carol", PasswordHash: string(hashed)},
			wantErr:   services.ErrInvalidCredentials,
			loginPass: "wrongpass",
		},
		{
			name:      "reader error",
			username:  "eve",
			user:      nil,
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
			loginPass: password,
		},
		{
			name:      "token generation error",
			username:  "dan",
			user:      &models.UserDB{UserID: 3, Username: "dan", PasswordHash: string(hashed)},
			tokenErr:  errors.New("sign error"),
			wantErr:   errors.New("sign error"),
			loginPass: password,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader.EXPECT().
				GetByUsername(gomock.Any(), tt.username).
				Return(tt.user, tt.readerErr)

			if tt.user != nil && tt.readerErr == nil && tt.loginPass == password {
				mockTokener.EXPECT().
					Generate(gomock.Any(), tt.user.UserID, tt.user.IsAdmin).
					Return(tt.wantToken, tt.tokenErr)
			}

			token, err := svc.Login(context.Background(), tt.username, tt.loginPass)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}
		})
	}
}

// Unknown username and wrong password must be indistinguishable to the caller.
func TestAuthService_Login_UniformFailureShape(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	svc := services.NewAuthService(
		mockReader,
		services.NewMockUserWriter(ctrl),
		services.NewMockTokener(ctrl),
		services.NewMockSessionRevoker(ctrl),
	)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.DefaultCost)

	mockReader.EXPECT().GetByUsername(gomock.Any(), "ghost").Return(nil, nil)
	_, errUnknown := svc.Login(context.Background(), "ghost", "whatever")

	mockReader.EXPECT().GetByUsername(gomock.Any(), "alice").
		Return(&models.UserDB{UserID: 1, Username: "alice", PasswordHash: string(hashed)}, nil)
	_, errWrongPass := svc.Login(context.Background(), "alice", "wrong")

	assert.Equal(t, errUnknown, errWrongPass)
	assert.ErrorIs(t, errUnknown, services.ErrInvalidCredentials)
}

func TestAuthService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTokener := services.NewMockTokener(ctrl)
	mockSessions := services.NewMockSessionRevoker(ctrl)

	svc := services.NewAuthService(
		services.NewMockUserReader(ctrl),
		services.NewMockUserWriter(ctrl),
		mockTokener,
		mockSessions,
	)

	t.Run("revokes token id", func(t *testing.T) {
		claims := &jwt.Claims{UserID: 1, TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)}

		mockTokener.EXPECT().GetClaims(gomock.Any(), "token").Return(claims, nil)
		mockSessions.EXPECT().Revoke(gomock.Any(), "jti-1", gomock.Any()).Return(nil)

		err := svc.Logout(context.Background(), "token")
		assert.NoError(t, err)
	})

	t.Run("invalid token", func(t *testing.T) {
		mockTokener.EXPECT().GetClaims(gomock.Any(), "garbage").Return(nil, errors.New("parse error"))

		err := svc.Logout(context.Background(), "garbage")
		assert.ErrorIs(t, err, services.ErrInvalidToken)
	})

	t.Run("revoke error", func(t *testing.T) {
		claims := &jwt.Claims{UserID: 1, TokenID: "jti-2", ExpiresAt: time.Now().Add(time.Hour)}

		mockTokener.EXPECT().GetClaims(gomock.Any(), "token2").Return(claims, nil)
		mockSessions.EXPECT().Revoke(gomock.Any(), "jti-2", gomock.Any()).Return(errors.New("redis down"))

		err := svc.Logout(context.Background(), "token2")
		assert.EqualError(t, err, "redis down")
	})
}

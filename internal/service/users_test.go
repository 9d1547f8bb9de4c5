package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashboard/board-service/internal/domain"
	"github.com/flashboard/board-service/internal/infrastructure/memory"
	"github.com/flashboard/board-service/internal/security"
	"github.com/flashboard/board-service/internal/service"
)

func newUserFixture() (*service.UserService, *security.TokenGate) {
	gate := security.NewTokenGate("users-test-secret", "board-auth", "web-frontend")
	svc := service.NewUserService(memory.NewUserStore(), security.NewBcryptHasher(4), gate)
	return svc, gate
}

func registerAlice(t *testing.T, svc *service.UserService) domain.User {
	t.Helper()
	u, err := svc.Register(context.Background(), service.RegisterInput{
		Username:       "alice",
		Mail:           "Alice@Example.COM",
		Password:       "Sup3rSecret",
		IsEmailVisible: false,
	})
	require.NoError(t, err)
	return u
}

func TestRegister_NormalizesMailAndHashesPassword(t *testing.T) {
	svc, _ := newUserFixture()
	u := registerAlice(t, svc)

	assert.Equal(t, "alice@example.com", u.Mail)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "Sup3rSecret", u.PasswordHash)
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	svc, _ := newUserFixture()
	registerAlice(t, svc)

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "alice", Mail: "other@example.com", Password: "Sup3rSecret",
	})
	assert.True(t, domain.Is(err, "username_taken"))

	_, err = svc.Register(context.Background(), service.RegisterInput{
		Username: "alice2", Mail: "alice@example.com", Password: "Sup3rSecret",
	})
	assert.True(t, domain.Is(err, "mail_taken"))
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc, gate := newUserFixture()
	u := registerAlice(t, svc)

	token, got, err := svc.Login(context.Background(), "alice", "Sup3rSecret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	claims, err := gate.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.SubjectID)
	assert.Equal(t, "alice", claims.Username)
}

func TestLogin_DoesNotLeakUserExistence(t *testing.T) {
	svc, _ := newUserFixture()
	registerAlice(t, svc)

	_, _, errUnknown := svc.Login(context.Background(), "nobody", "Sup3rSecret")
	_, _, errBadPass := svc.Login(context.Background(), "alice", "WrongPass1")

	assert.True(t, domain.Is(errUnknown, "invalid_credentials"))
	assert.True(t, domain.Is(errBadPass, "invalid_credentials"))
	assert.Equal(t, errUnknown.Error(), errBadPass.Error())
}

func TestUpdate(t *testing.T) {
	svc, _ := newUserFixture()
	u := registerAlice(t, svc)

	err := svc.Update(context.Background(), u.ID, service.UpdateUserInput{})
	assert.True(t, domain.Is(err, "invalid_field"))

	mail := "New@Example.com"
	visible := true
	pass := "An0therSecret"
	require.NoError(t, svc.Update(context.Background(), u.ID, service.UpdateUserInput{
		NewMail:        &mail,
		NewPassword:    &pass,
		IsEmailVisible: &visible,
	}))

	got, err := svc.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Mail)
	assert.True(t, got.IsEmailVisible)

	_, _, err = svc.Login(context.Background(), "alice", "An0therSecret")
	assert.NoError(t, err)
}

func TestDeleteAndLookups(t *testing.T) {
	svc, _ := newUserFixture()
	u := registerAlice(t, svc)

	byName, err := svc.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	require.NoError(t, svc.Delete(context.Background(), u.ID))

	_, err = svc.GetByID(context.Background(), u.ID)
	assert.True(t, domain.Is(err, "user_not_found"))

	_, err = svc.GetByID(context.Background(), uuid.New())
	assert.True(t, domain.Is(err, "user_not_found"))
}

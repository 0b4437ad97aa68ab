package service

import (
	"context"
	"time"

	userdomain "github.com/AlibekovAA/book-reviews/internal/user/domain"
)

type mockUserRepo struct {
	createFunc        func(ctx context.Context, user userdomain.User) error
	findByEmailFunc   func(ctx context.Context, email string) (userdomain.User, error)
	findByIDFunc      func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
	updateProfileFunc func(ctx context.Context, id userdomain.ID, update userdomain.ProfileUpdate) (userdomain.User, error)
	findUsernamesFunc func(ctx context.Context, ids []userdomain.ID) (map[userdomain.ID]string, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return userdomain.User{}, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id userdomain.ID, update userdomain.ProfileUpdate) (userdomain.User, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, id, update)
	}
	return userdomain.User{}, nil
}

func (m *mockUserRepo) FindUsernames(ctx context.Context, ids []userdomain.ID) (map[userdomain.ID]string, error) {
	if m.findUsernamesFunc != nil {
		return m.findUsernamesFunc(ctx, ids)
	}
	return map[userdomain.ID]string{}, nil
}

type mockHasher struct {
	hashFunc   func(password string) (string, error)
	verifyFunc func(password, hash string) (bool, error)
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Verify(password, hash string) (bool, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(password, hash)
	}
	return hash == "hashed:"+password, nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "user-id", nil
}

type mockTokenIssuer struct {
	issueFunc func(userID string) (string, time.Time, error)
}

func (m *mockTokenIssuer) Issue(userID string) (string, time.Time, error) {
	if m.issueFunc != nil {
		return m.issueFunc(userID)
	}
	return "token-for-" + userID, time.Time{}, nil
}

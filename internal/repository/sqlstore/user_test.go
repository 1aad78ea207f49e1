package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/model"
)

func testUser(username string) model.User {
	return model.User{
		Username:     username,
		PasswordHash: "$2a$04$notarealhashbutlongenoughtostore",
		FirstName:    "Test",
		LastName:     "User",
		Email:        username + "@example.com",
	}
}

func TestUserCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	created, err := db.Users().Create(ctx, testUser("testuser"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.IsAdmin {
		t.Error("Create() IsAdmin = true, want false")
	}
	if created.PhotoURL != nil {
		t.Errorf("PhotoURL = %v, want nil", *created.PhotoURL)
	}

	got, err := db.Users().Get(ctx, "testuser")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.PasswordHash != created.PasswordHash {
		t.Errorf("PasswordHash = %q, want %q", got.PasswordHash, created.PasswordHash)
	}
	if got.Email != "testuser@example.com" {
		t.Errorf("Email = %q", got.Email)
	}
}

func TestUserCreate_Admin(t *testing.T) {
	db := newTestDB(t)

	u := testUser("boss")
	u.IsAdmin = true
	created, err := db.Users().Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !created.IsAdmin {
		t.Error("IsAdmin = false, want true")
	}
}

func TestUserCreate_Duplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.Users().Create(ctx, testUser("testuser")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err := db.Users().Create(ctx, testUser("testuser"))
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("duplicate Create() error = %v, want ErrConflict", err)
	}
	if err.Error() != "user with username testuser already exists" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestUserList(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	users, err := db.Users().List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("List() on empty table = %v, want empty slice", users)
	}

	for _, name := range []string{"zed", "amy"} {
		if _, err := db.Users().Create(ctx, testUser(name)); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	users, err = db.Users().List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 2 || users[0].Username != "amy" || users[1].Username != "zed" {
		t.Errorf("List() = %+v, want [amy zed]", users)
	}
}

func TestUserUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	if _, err := db.Users().Create(ctx, testUser("testuser")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	u, err := db.Users().Update(ctx, "testuser", model.UserPatch{
		FirstName: ptr("Changed"),
		PhotoURL:  model.Some("https://example.com/me.png"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if u.FirstName != "Changed" {
		t.Errorf("FirstName = %q, want Changed", u.FirstName)
	}
	if u.PhotoURL == nil || *u.PhotoURL != "https://example.com/me.png" {
		t.Errorf("PhotoURL = %v", u.PhotoURL)
	}
	if u.LastName != "User" {
		t.Errorf("LastName = %q, untouched field changed", u.LastName)
	}

	u, err = db.Users().Update(ctx, "testuser", model.UserPatch{PhotoURL: model.Null[string]()})
	if err != nil {
		t.Fatalf("Update() to null error = %v", err)
	}
	if u.PhotoURL != nil {
		t.Errorf("PhotoURL = %q, want NULL", *u.PhotoURL)
	}
}

func TestUserUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().Update(context.Background(), "ghost", model.UserPatch{FirstName: ptr("x")})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
	if err.Error() != "user not found with username ghost" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestUserDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	if _, err := db.Users().Create(ctx, testUser("testuser")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := db.Users().Delete(ctx, "testuser"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := db.Users().Get(ctx, "testuser"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := db.Users().Delete(ctx, "testuser"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

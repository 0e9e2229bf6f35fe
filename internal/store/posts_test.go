package store

import (
	"context"
	"errors"
	"testing"

	"github.com/matatuconnect/backend/internal/db"
	"github.com/matatuconnect/backend/internal/model"
)

func TestCreateAndListPosts(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "Wanjiku", "Kamau", "wanjiku", "wanjiku@example.com", "hash", model.RoleCommuter)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	accident, err := CreatePost(ctx, database, model.PostTypeAccident, "Pileup at Globe roundabout", &user.ID)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if accident.Type != model.PostTypeAccident {
		t.Errorf("type = %q, want %q", accident.Type, model.PostTypeAccident)
	}

	if _, err := CreatePost(ctx, database, model.PostTypeTrafficUpdate, "Thika Road slow past Roysambu", &user.ID); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	all, err := ListPosts(ctx, database, "")
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}

	accidents, err := ListPosts(ctx, database, model.PostTypeAccident)
	if err != nil {
		t.Fatalf("ListPosts filtered: %v", err)
	}
	if len(accidents) != 1 {
		t.Fatalf("len(accidents) = %d, want 1", len(accidents))
	}
	if accidents[0].ID != accident.ID {
		t.Errorf("filtered post id = %d, want %d", accidents[0].ID, accident.ID)
	}
}

func TestDeletePost(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	post, err := CreatePost(ctx, database, model.PostTypeTrafficUpdate, "Jam cleared on Waiyaki Way", nil)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if err := DeletePost(ctx, database, post.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}

	got, err := GetPost(ctx, database, post.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got != nil {
		t.Error("expected post to be gone")
	}

	if err := DeletePost(ctx, database, post.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestPostPhotoRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	post, err := CreatePost(ctx, database, model.PostTypeAccident, "Matatu overturned near Kencom", nil)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	photo := []byte("jpeg bytes")
	if err := SetPostPhoto(ctx, database, post.ID, photo, "image/jpeg"); err != nil {
		t.Fatalf("SetPostPhoto: %v", err)
	}

	data, mime, err := GetPostPhoto(ctx, database, post.ID)
	if err != nil {
		t.Fatalf("GetPostPhoto: %v", err)
	}
	if string(data) != string(photo) {
		t.Error("photo data mismatch")
	}
	if mime != "image/jpeg" {
		t.Errorf("mime = %q, want image/jpeg", mime)
	}
}

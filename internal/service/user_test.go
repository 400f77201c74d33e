package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"alumniconnect/internal/events"
	"alumniconnect/internal/model"
	"alumniconnect/internal/repository"
	"alumniconnect/internal/store"
)

var (
	sarah = model.User{
		ID: "user_1", Name: "Sarah Chen", Email: "sarah@example.com", Role: model.RoleAlumni,
		Headline: "Software Engineer at Google", Skills: []string{"React", "Go"},
		Connections: []string{"user_2"}, IncomingRequests: []string{}, ProfileViews: 12,
	}
	david = model.User{
		ID: "user_2", Name: "David Miller", Email: "david@example.com", Role: model.RoleAlumni,
		Headline: "Product Manager at Spotify", Skills: []string{"Agile"},
		Connections: []string{"user_1"}, IncomingRequests: []string{}, ProfileViews: 8,
	}
	elena = model.User{
		ID: "user_3", Name: "Elena Rodriguez", Email: "elena@example.com", Role: model.RoleAlumni,
		Headline: "AI Researcher", Skills: []string{"Machine Learning", "Python"},
		Connections: []string{}, IncomingRequests: []string{"user_1"}, ProfileViews: 45,
	}
)

// =============================================================================
// REGISTER TESTS
// =============================================================================

func TestUserService_Register_Success(t *testing.T) {
	// ARRANGE
	repo := (&mockRepository{}).withUsers(sarah)
	media := &mockOffloader{}
	svc := NewUserService(repo, media, zap.NewNop())

	req := &model.RegisterRequest{
		Name:   "  Jane Doe ",
		Email:  "jane@x.edu",
		Role:   model.RoleStudent,
		Skills: "Go, , SQL,Go",
	}

	// ACT
	user, err := svc.Register(context.Background(), req)

	// ASSERT
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if user.ID == "" {
		t.Error("expected an id")
	}
	if len(repo.createUserCalls) != 1 {
		t.Fatalf("CreateUser called %d times, want 1", len(repo.createUserCalls))
	}

	got := repo.createUserCalls[0]
	if got.Name != "Jane Doe" {
		t.Errorf("name = %q, want trimmed %q", got.Name, "Jane Doe")
	}
	wantSkills := []string{"Go", "SQL", "Go"}
	if !reflect.DeepEqual(got.Skills, wantSkills) {
		t.Errorf("skills = %v, want %v", got.Skills, wantSkills)
	}
	if len(media.kinds) != 1 || media.kinds[0] != model.ImageAvatar {
		t.Errorf("avatar should be offloaded as an avatar, got %v", media.kinds)
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     model.RegisterRequest
		wantErr error
	}{
		{name: "missing name", req: model.RegisterRequest{Name: "  ", Email: "a@b.com"}, wantErr: model.ErrNameRequired},
		{name: "missing email", req: model.RegisterRequest{Name: "Jane"}, wantErr: model.ErrEmailRequired},
		{name: "bad email", req: model.RegisterRequest{Name: "Jane", Email: "not-an-email"}, wantErr: model.ErrInvalidEmail},
		{name: "duplicate email any case", req: model.RegisterRequest{Name: "Jane", Email: "SARAH@example.com"}, wantErr: model.ErrEmailExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := (&mockRepository{}).withUsers(sarah)
			svc := NewUserService(repo, nil, zap.NewNop())

			_, err := svc.Register(context.Background(), &tt.req)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if len(repo.createUserCalls) != 0 {
				t.Error("CreateUser should not be called on invalid input")
			}
		})
	}
}

func TestUserService_Register_BadRole(t *testing.T) {
	svc := NewUserService(&mockRepository{}, nil, zap.NewNop())

	_, err := svc.Register(context.Background(), &model.RegisterRequest{Name: "Jane", Email: "j@x.edu", Role: "Professor"})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if _, ok := ve.Fields["role"]; !ok {
		t.Errorf("fields = %v, want role", ve.Fields)
	}
}

func TestUserService_Register_AvatarRejected(t *testing.T) {
	media := &mockOffloader{
		offloadFn: func(context.Context, string, model.ImageKind) (string, error) {
			return "", model.ErrInvalidImageType
		},
	}
	repo := &mockRepository{}
	svc := NewUserService(repo, media, zap.NewNop())

	_, err := svc.Register(context.Background(), &model.RegisterRequest{Name: "Jane", Email: "j@x.edu", Avatar: "data:text/plain;base64,aGk="})

	if !errors.Is(err, model.ErrInvalidImageType) {
		t.Errorf("error = %v, want %v", err, model.ErrInvalidImageType)
	}
	if len(repo.createUserCalls) != 0 {
		t.Error("CreateUser should not be called when the avatar is rejected")
	}
}

// =============================================================================
// LOGIN TESTS - Table-Driven
// =============================================================================

func TestUserService_Login(t *testing.T) {
	dbError := errors.New("store unavailable")

	tests := []struct {
		name    string
		loginFn func(ctx context.Context, email string) (model.User, bool, error)
		wantErr error
		wantID  string
	}{
		{
			name: "known email",
			loginFn: func(context.Context, string) (model.User, bool, error) {
				return sarah, true, nil
			},
			wantID: "user_1",
		},
		{
			name: "unknown email",
			loginFn: func(context.Context, string) (model.User, bool, error) {
				return model.User{}, false, nil
			},
			wantErr: model.ErrInvalidCredentials,
		},
		{
			name: "store failure",
			loginFn: func(context.Context, string) (model.User, bool, error) {
				return model.User{}, false, dbError
			},
			wantErr: dbError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserService(&mockRepository{loginFn: tt.loginFn}, nil, zap.NewNop())

			user, err := svc.Login(context.Background(), "whoever@example.com")

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if user.ID != tt.wantID {
				t.Errorf("id = %q, want %q", user.ID, tt.wantID)
			}
		})
	}
}

// =============================================================================
// PROFILE TESTS
// =============================================================================

func TestUserService_ListUsers_Filter(t *testing.T) {
	svc := NewUserService((&mockRepository{}).withUsers(sarah, david, elena), nil, zap.NewNop())

	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"user_1", "user_2", "user_3"}},
		{query: "CHEN", want: []string{"user_1"}},
		{query: "spotify", want: []string{"user_2"}},
		{query: "learning", want: []string{"user_3"}},
		{query: "nobody", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			users, err := svc.ListUsers(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			ids := make([]string, 0, len(users))
			for _, u := range users {
				ids = append(ids, u.ID)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("ids = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestUserService_UpdateProfile_PreservesIdentityAndGraph(t *testing.T) {
	repo := (&mockRepository{}).withUsers(sarah)
	svc := NewUserService(repo, nil, zap.NewNop())

	user, err := svc.UpdateProfile(context.Background(), "user_1", &model.UpdateProfileRequest{
		Name:     "Sarah C.",
		Headline: "Staff Engineer",
		About:    "Building things",
		Skills:   nil,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.savedProfiles) != 1 {
		t.Fatalf("profile writes = %d, want 1", len(repo.savedProfiles))
	}
	saved := repo.savedProfiles[0]

	if saved.ID != "user_1" || saved.Email != sarah.Email {
		t.Errorf("identity changed: %+v", saved)
	}
	if !reflect.DeepEqual(saved.Connections, sarah.Connections) || saved.ProfileViews != sarah.ProfileViews {
		t.Errorf("graph fields changed: %+v", saved)
	}
	if saved.Role != model.RoleAlumni {
		t.Errorf("role = %q, want kept %q", saved.Role, model.RoleAlumni)
	}
	if user.Headline != "Staff Engineer" || user.Skills == nil {
		t.Errorf("editable fields not applied: %+v", user)
	}
}

// requestDuringEdit sends a connection request after the service has read the
// profile and before the edit is written.
type requestDuringEdit struct {
	repository.Repository
	from, to string
}

func (r *requestDuringEdit) UpdateProfile(ctx context.Context, id string, edit func(*model.User)) (model.User, bool, error) {
	if err := r.Repository.SendConnectionRequest(ctx, r.from, r.to); err != nil {
		return model.User{}, false, err
	}
	return r.Repository.UpdateProfile(ctx, id, edit)
}

func TestUserService_UpdateProfile_KeepsConcurrentConnectionRequest(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	st := store.New(store.NewMemoryKV(), "test", zap.NewNop())
	if err := st.Seed(ctx, time.Now()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo := &requestDuringEdit{
		Repository: repository.NewRepository(st, events.Discard, zap.NewNop()),
		from:       "user_2",
		to:         "user_1",
	}
	svc := NewUserService(repo, nil, zap.NewNop())

	// ACT
	updated, err := svc.UpdateProfile(ctx, "user_1", &model.UpdateProfileRequest{Name: "Sarah J.", Headline: "Staff Engineer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// ASSERT
	stored, _, err := repo.GetUser(ctx, "user_1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !reflect.DeepEqual(stored.IncomingRequests, []string{"user_2"}) {
		t.Errorf("stored incoming requests = %v, want [user_2]", stored.IncomingRequests)
	}
	if !reflect.DeepEqual(updated.IncomingRequests, []string{"user_2"}) {
		t.Errorf("returned incoming requests = %v, want [user_2]", updated.IncomingRequests)
	}
	if stored.Name != "Sarah J." || stored.Headline != "Staff Engineer" {
		t.Errorf("edit not applied: %+v", stored)
	}
}

func TestUserService_UpdateProfile_UnknownUser(t *testing.T) {
	svc := NewUserService(&mockRepository{}, nil, zap.NewNop())

	_, err := svc.UpdateProfile(context.Background(), "ghost", &model.UpdateProfileRequest{Name: "X"})

	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}

func TestUserService_ViewProfile(t *testing.T) {
	tests := []struct {
		name      string
		viewer    string
		wantViews int
		wantIncr  int
	}{
		{name: "other member", viewer: "user_2", wantViews: 46, wantIncr: 1},
		{name: "own profile", viewer: "user_3", wantViews: 45, wantIncr: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := (&mockRepository{}).withUsers(elena)
			svc := NewUserService(repo, nil, zap.NewNop())

			user, err := svc.ViewProfile(context.Background(), tt.viewer, "user_3")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.ProfileViews != tt.wantViews {
				t.Errorf("views = %d, want %d", user.ProfileViews, tt.wantViews)
			}
			if len(repo.viewIncrements) != tt.wantIncr {
				t.Errorf("increments = %d, want %d", len(repo.viewIncrements), tt.wantIncr)
			}
		})
	}
}

func TestUserService_Network(t *testing.T) {
	// david has asked sarah to connect; sarah has asked elena
	d := david
	d.Connections = []string{}
	s := sarah
	s.Connections = []string{}
	s.IncomingRequests = []string{"user_2"}

	svc := NewUserService((&mockRepository{}).withUsers(s, d, elena), nil, zap.NewNop())

	resp, err := svc.Network(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Connections) != 0 {
		t.Errorf("connections = %v, want none", resp.Connections)
	}
	if len(resp.Requests) != 1 || resp.Requests[0].ID != "user_2" {
		t.Errorf("requests = %v, want [user_2]", resp.Requests)
	}
	if len(resp.Suggestions) != 2 {
		t.Fatalf("suggestions = %v, want 2", resp.Suggestions)
	}
	for _, sug := range resp.Suggestions {
		wantPending := sug.ID == "user_3"
		if sug.IsPending != wantPending {
			t.Errorf("%s isPending = %v, want %v", sug.ID, sug.IsPending, wantPending)
		}
	}
}

func TestUserService_Network_UnknownUser(t *testing.T) {
	svc := NewUserService((&mockRepository{}).withUsers(sarah), nil, zap.NewNop())

	_, err := svc.Network(context.Background(), "ghost")
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}

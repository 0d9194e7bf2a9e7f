package graph

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedboard/services"
	"feedboard/storage"
	"feedboard/store/memstore"
)

type nopPublisher struct{}

func (nopPublisher) Publish(event string, payload interface{}) {}

type memAssets struct{ n int }

func (a *memAssets) Store(ctx context.Context, upload storage.Upload) (string, error) {
	a.n++
	return fmt.Sprintf("uploads/mem-%d.png", a.n), nil
}

func (a *memAssets) Remove(ref string) error { return nil }

type testWorld struct {
	schema graphql.Schema
	auth   *services.AuthService
}

func newWorld(t *testing.T) *testWorld {
	t.Helper()

	st := memstore.New()
	tokens := services.NewTokenManager("test-secret", time.Hour)
	auth := services.NewAuthService(st.Users(), tokens)
	users := services.NewUserService(st.Users())
	posts := services.NewPostService(st.Posts(), users, &memAssets{}, nopPublisher{}, 2)

	schema, err := NewSchema(NewResolver(auth, users, posts))
	require.NoError(t, err)

	return &testWorld{schema: schema, auth: auth}
}

func (w *testWorld) do(ctx context.Context, query string, vars map[string]interface{}) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         w.schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        ctx,
	})
}

func (w *testWorld) signup(t *testing.T, name, email string) services.Identity {
	t.Helper()

	result := w.do(context.Background(), `
		mutation($input: UserInput!) { createUser(userInput: $input) { _id email } }
	`, map[string]interface{}{
		"input": map[string]interface{}{"name": name, "email": email, "password": "secret123"},
	})
	require.Empty(t, result.Errors)

	token := w.login(t, email)
	identity, err := w.auth.Verify(token)
	require.NoError(t, err)
	return identity
}

func (w *testWorld) login(t *testing.T, email string) string {
	t.Helper()

	result := w.do(context.Background(),
		fmt.Sprintf(`{ login(email: %q, password: "secret123") { token userId } }`, email), nil)
	require.Empty(t, result.Errors)

	data := result.Data.(map[string]interface{})
	login := data["login"].(map[string]interface{})
	return login["token"].(string)
}

func TestCreateUserAndLogin(t *testing.T) {
	w := newWorld(t)
	identity := w.signup(t, "Maria", "maria@example.com")
	assert.Equal(t, "maria@example.com", identity.Email)
}

func TestQueriesRequireAuthentication(t *testing.T) {
	w := newWorld(t)

	for _, query := range []string{
		`{ getPosts { totalPosts } }`,
		`{ status }`,
		`mutation { setStatus(status: "busy") }`,
		`mutation { createPost(postInput: {title: "Hello World", content: "This is content", imageUrl: "uploads/x.png"}) { _id } }`,
	} {
		result := w.do(context.Background(), query, nil)
		require.NotEmpty(t, result.Errors, query)
		ext := result.Errors[0].Extensions
		require.NotNil(t, ext, query)
		assert.EqualValues(t, http.StatusUnauthorized, ext["code"], query)
	}
}

func TestPostLifecycleOverGraphQL(t *testing.T) {
	w := newWorld(t)
	owner := w.signup(t, "Maria", "maria@example.com")
	other := w.signup(t, "Pete", "pete@example.com")

	ownerCtx := WithIdentity(context.Background(), owner)
	otherCtx := WithIdentity(context.Background(), other)

	result := w.do(ownerCtx, `
		mutation { createPost(postInput: {title: "Hello World", content: "This is content", imageUrl: "uploads/img1.png"}) {
			_id title imageUrl creator { name }
		} }
	`, nil)
	require.Empty(t, result.Errors)
	created := result.Data.(map[string]interface{})["createPost"].(map[string]interface{})
	postID := created["_id"].(string)
	assert.Equal(t, "uploads/img1.png", created["imageUrl"])
	assert.Equal(t, "Maria", created["creator"].(map[string]interface{})["name"])

	// Pagination shape.
	result = w.do(ownerCtx, `{ getPosts(page: 1) { totalPosts posts { title creator { name } } } }`, nil)
	require.Empty(t, result.Errors)
	page := result.Data.(map[string]interface{})["getPosts"].(map[string]interface{})
	assert.EqualValues(t, 1, page["totalPosts"])

	// Foreign update is Forbidden with the uniform 403 code.
	result = w.do(otherCtx, fmt.Sprintf(`
		mutation { updatePost(id: %q, postInput: {title: "Hijacked post", content: "This is content"}) { _id } }
	`, postID), nil)
	require.NotEmpty(t, result.Errors)
	assert.EqualValues(t, http.StatusForbidden, result.Errors[0].Extensions["code"])

	// Owner update succeeds.
	result = w.do(ownerCtx, fmt.Sprintf(`
		mutation { updatePost(id: %q, postInput: {title: "Hello World!", content: "This is content"}) { title } }
	`, postID), nil)
	require.Empty(t, result.Errors)
	updated := result.Data.(map[string]interface{})["updatePost"].(map[string]interface{})
	assert.Equal(t, "Hello World!", updated["title"])

	// Delete, then the post is gone with a 404 code.
	result = w.do(ownerCtx, fmt.Sprintf(`mutation { deletePost(id: %q) }`, postID), nil)
	require.Empty(t, result.Errors)
	assert.Equal(t, postID, result.Data.(map[string]interface{})["deletePost"])

	result = w.do(ownerCtx, fmt.Sprintf(`{ post(postId: %q) { _id } }`, postID), nil)
	require.NotEmpty(t, result.Errors)
	assert.EqualValues(t, http.StatusNotFound, result.Errors[0].Extensions["code"])
}

func TestStatusOverGraphQL(t *testing.T) {
	w := newWorld(t)
	identity := w.signup(t, "Maria", "maria@example.com")
	ctx := WithIdentity(context.Background(), identity)

	result := w.do(ctx, `mutation { setStatus(status: "reviewing drafts") }`, nil)
	require.Empty(t, result.Errors)
	assert.Equal(t, "reviewing drafts", result.Data.(map[string]interface{})["setStatus"])

	result = w.do(ctx, `{ status }`, nil)
	require.Empty(t, result.Errors)
	assert.Equal(t, "reviewing drafts", result.Data.(map[string]interface{})["status"])
}

// Package graph is the typed-query surface. It exposes the same operations
// as the REST handlers and delegates every decision to the service layer, so
// authorization, pagination and error codes cannot drift between the two.
package graph

import (
	"time"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"feedboard/apperr"
	"feedboard/models"
	"feedboard/services"
)

type Resolver struct {
	auth  *services.AuthService
	users *services.UserService
	posts *services.PostService
}

func NewResolver(auth *services.AuthService, users *services.UserService, posts *services.PostService) *Resolver {
	return &Resolver{auth: auth, users: users, posts: posts}
}

// NewSchema wires the full query/mutation schema around the resolver.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	creatorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Creator",
		Fields: graphql.Fields{
			"_id":  &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	postType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"_id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"content":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"imageUrl":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"creator":   &graphql.Field{Type: creatorType},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"_id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"status": &graphql.Field{Type: graphql.String},
			"posts":  &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.ID))},
		},
	})

	authDataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthData",
		Fields: graphql.Fields{
			"token":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"userId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		},
	})

	postPageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PostPage",
		Fields: graphql.Fields{
			"posts":      &graphql.Field{Type: graphql.NewList(postType)},
			"totalPosts": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	userInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	postInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PostInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"content":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"imageUrl": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type: authDataType,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.login,
			},
			"getPosts": &graphql.Field{
				Type: postPageType,
				Args: graphql.FieldConfigArgument{
					"page": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.getPosts,
			},
			"post": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"postId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.getPost,
			},
			"status": &graphql.Field{
				Type:    graphql.String,
				Resolve: r.status,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootMutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"userInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(userInput)},
				},
				Resolve: r.createUser,
			},
			"createPost": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"postInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(postInput)},
				},
				Resolve: r.createPost,
			},
			"updatePost": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"postInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(postInput)},
				},
				Resolve: r.updatePost,
			},
			"deletePost": &graphql.Field{
				Type: graphql.ID,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.deletePost,
			},
			"setStatus": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.setStatus,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

func (r *Resolver) createUser(p graphql.ResolveParams) (interface{}, error) {
	input, _ := p.Args["userInput"].(map[string]interface{})
	name, _ := input["name"].(string)
	email, _ := input["email"].(string)
	password, _ := input["password"].(string)

	userID, err := r.auth.Register(p.Context, name, email, password)
	if err != nil {
		return nil, err
	}

	user, err := r.users.Get(p.Context, userID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"_id":    user.ID.Hex(),
		"name":   user.Name,
		"email":  user.Email,
		"status": user.Status,
		"posts":  hexIDs(user.Posts),
	}, nil
}

func (r *Resolver) login(p graphql.ResolveParams) (interface{}, error) {
	email, _ := p.Args["email"].(string)
	password, _ := p.Args["password"].(string)

	token, userID, err := r.auth.Authenticate(p.Context, email, password)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"token":  token,
		"userId": userID.Hex(),
	}, nil
}

func (r *Resolver) getPosts(p graphql.ResolveParams) (interface{}, error) {
	if _, ok := identityFrom(p.Context); !ok {
		return nil, apperr.Unauthenticated("not authenticated")
	}

	page, _ := p.Args["page"].(int)

	posts, total, err := r.posts.List(p.Context, int64(page))
	if err != nil {
		return nil, err
	}

	items := make([]map[string]interface{}, len(posts))
	for i := range posts {
		items[i] = gqlPost(&posts[i])
	}

	return map[string]interface{}{
		"posts":      items,
		"totalPosts": total,
	}, nil
}

func (r *Resolver) getPost(p graphql.ResolveParams) (interface{}, error) {
	if _, ok := identityFrom(p.Context); !ok {
		return nil, apperr.Unauthenticated("not authenticated")
	}

	postID, err := objectID(p.Args["postId"])
	if err != nil {
		return nil, apperr.NotFound("post not found")
	}

	post, err := r.posts.Get(p.Context, postID)
	if err != nil {
		return nil, err
	}

	creator, err := r.users.Get(p.Context, post.CreatorID)
	if err == nil {
		summary := creator.Summary()
		post.Creator = &summary
	}

	return gqlPost(post), nil
}

func (r *Resolver) createPost(p graphql.ResolveParams) (interface{}, error) {
	identity, ok := identityFrom(p.Context)
	if !ok {
		return nil, apperr.Unauthenticated("not authenticated")
	}

	input, _ := p.Args["postInput"].(map[string]interface{})
	title, _ := input["title"].(string)
	content, _ := input["content"].(string)
	imageRef, _ := input["imageUrl"].(string)

	post, err := r.posts.Create(p.Context, identity.UserID, services.CreatePostInput{
		Title:    title,
		Content:  content,
		ImageRef: imageRef,
	})
	if err != nil {
		return nil, err
	}
	return gqlPost(post), nil
}

func (r *Resolver) updatePost(p graphql.ResolveParams) (interface{}, error) {
	identity, ok := identityFrom(p.Context)
	if !ok {
		return nil, apperr.Unauthenticated("not authenticated")
	}

	postID, err := objectID(p.Args["id"])
	if err != nil {
		return nil, apperr.NotFound("post not found")
	}

	input, _ := p.Args["postInput"].(map[string]interface{})
	title, _ := input["title"].(string)
	content, _ := input["content"].(string)
	imageRef, _ := input["imageUrl"].(string)

	post, err := r.posts.Update(p.Context, identity.UserID, postID, services.UpdatePostInput{
		Title:    title,
		Content:  content,
		ImageRef: imageRef,
	})
	if err != nil {
		return nil, err
	}
	return gqlPost(post), nil
}

func (r *Resolver) deletePost(p graphql.ResolveParams) (interface{}, error) {
	identity, ok := identityFrom(p.Context)
	if !ok {
		return nil, apperr.Unauthenticated("not authenticated")
	}

	postID, err := objectID(p.Args["id"])
	if err != nil {
		return nil, apperr.NotFound("post not found")
	}

	deletedID, err := r.posts.Delete(p.Context, identity.UserID, postID)
	if err != nil {
		return nil, err
	}
	return deletedID.Hex(), nil
}

func (r *Resolver) status(p graphql.ResolveParams) (interface{}, error) {
	identity, ok := identityFrom(p.Context)
	if !ok {
		return nil, apperr.Unauthenticated("not authenticated")
	}
	return r.users.GetStatus(p.Context, identity.UserID)
}

func (r *Resolver) setStatus(p graphql.ResolveParams) (interface{}, error) {
	identity, ok := identityFrom(p.Context)
	if !ok {
		return nil, apperr.Unauthenticated("not authenticated")
	}

	status, _ := p.Args["status"].(string)
	return r.users.SetStatus(p.Context, identity.UserID, status)
}

func gqlPost(post *models.Post) map[string]interface{} {
	out := map[string]interface{}{
		"_id":       post.ID.Hex(),
		"title":     post.Title,
		"content":   post.Content,
		"imageUrl":  post.ImageRef,
		"createdAt": post.CreatedAt.Format(time.RFC3339),
		"updatedAt": post.UpdatedAt.Format(time.RFC3339),
	}
	if post.Creator != nil {
		out["creator"] = map[string]interface{}{
			"_id":  post.Creator.ID.Hex(),
			"name": post.Creator.Name,
		}
	}
	return out
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}

func objectID(arg interface{}) (primitive.ObjectID, error) {
	s, _ := arg.(string)
	return primitive.ObjectIDFromHex(s)
}

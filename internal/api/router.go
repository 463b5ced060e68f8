package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	workspacesHandler := &WorkspacesHandler{DB: db}
	iamHandler := &IAMHandler{DB: db}
	categoriesHandler := &CategoriesHandler{DB: db}
	locationsHandler := &LocationsHandler{DB: db}
	typesHandler := &TypesHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	authed := func(h http.HandlerFunc) http.Handler {
		return authMW(h)
	}

	// Public: account and workspace-credential login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/iam", authHandler.IAMLogin)

	// Authenticated session management.
	mux.Handle("PUT /api/auth/password", authed(authHandler.ChangePassword))
	mux.Handle("POST /api/auth/logout", authed(authHandler.Logout))

	// Users.
	mux.Handle("GET /api/user", authed(usersHandler.List))
	mux.Handle("POST /api/user", authed(usersHandler.Create))
	mux.Handle("GET /api/user/{id}", authed(usersHandler.Get))
	mux.Handle("PUT /api/user/{id}", authed(usersHandler.Update))
	mux.Handle("DELETE /api/user/{id}", authed(usersHandler.Delete))

	// Workspaces.
	mux.Handle("GET /api/workspace", authed(workspacesHandler.List))
	mux.Handle("POST /api/workspace", authed(workspacesHandler.Create))
	mux.Handle("GET /api/workspace/{id}", authed(workspacesHandler.Get))
	mux.Handle("GET /api/workspace/user/{userId}", authed(workspacesHandler.ListByUser))
	mux.Handle("PUT /api/workspace/{id}", authed(workspacesHandler.Update))
	mux.Handle("DELETE /api/workspace/{id}", authed(workspacesHandler.Delete))

	// Workspace credentials.
	mux.Handle("GET /api/iam", authed(iamHandler.List))
	mux.Handle("POST /api/iam", authed(iamHandler.Create))
	mux.Handle("GET /api/iam/{id}", authed(iamHandler.Get))
	mux.Handle("GET /api/iam/workspace/{workspaceId}", authed(iamHandler.ListByWorkspace))
	mux.Handle("PUT /api/iam/{id}", authed(iamHandler.Update))
	mux.Handle("DELETE /api/iam/{id}", authed(iamHandler.Delete))

	// Categories.
	mux.Handle("GET /api/category", authed(categoriesHandler.List))
	mux.Handle("POST /api/category", authed(categoriesHandler.Create))
	mux.Handle("GET /api/category/{id}", authed(categoriesHandler.Get))
	mux.Handle("GET /api/category/{id}/children", authed(categoriesHandler.ListChildren))
	mux.Handle("GET /api/category/workspace/{workspaceId}", authed(categoriesHandler.ListByWorkspace))
	mux.Handle("PUT /api/category/{id}", authed(categoriesHandler.Update))
	mux.Handle("DELETE /api/category/{id}", authed(categoriesHandler.Delete))

	// Locations.
	mux.Handle("GET /api/location", authed(locationsHandler.List))
	mux.Handle("POST /api/location", authed(locationsHandler.Create))
	mux.Handle("GET /api/location/{id}", authed(locationsHandler.Get))
	mux.Handle("GET /api/location/workspace/{workspaceId}", authed(locationsHandler.ListByWorkspace))
	mux.Handle("PUT /api/location/{id}", authed(locationsHandler.Update))
	mux.Handle("DELETE /api/location/{id}", authed(locationsHandler.Delete))

	// Item types.
	mux.Handle("GET /api/type", authed(typesHandler.List))
	mux.Handle("POST /api/type", authed(typesHandler.Create))
	mux.Handle("GET /api/type/{id}", authed(typesHandler.Get))
	mux.Handle("PUT /api/type/{id}", authed(typesHandler.Update))
	mux.Handle("DELETE /api/type/{id}", authed(typesHandler.Delete))

	// Items.
	mux.Handle("GET /api/item", authed(itemsHandler.List))
	mux.Handle("POST /api/item", authed(itemsHandler.Create))
	mux.Handle("GET /api/item/{id}", authed(itemsHandler.Get))
	mux.Handle("GET /api/item/workspace/{workspaceId}", authed(itemsHandler.ListByWorkspace))
	mux.Handle("GET /api/item/category/{categoryId}", authed(itemsHandler.ListByCategory))
	mux.Handle("PUT /api/item/{id}", authed(itemsHandler.Update))
	mux.Handle("DELETE /api/item/{id}", authed(itemsHandler.Delete))
	mux.Handle("PUT /api/item/{id}/image", authed(itemsHandler.UploadImage))
	mux.Handle("GET /api/item/{id}/image", authed(itemsHandler.GetImage))

	return mux
}

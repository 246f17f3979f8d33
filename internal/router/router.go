// Package router wires the HTTP surface of the service: the landing, login
// and shorten pages, the logout action and the public slug redirect.
package router

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/shortie/internal/authenticator"
	"github.com/patric-chuzhbe/shortie/internal/gzippedhttp"
	"github.com/patric-chuzhbe/shortie/internal/logger"
	"github.com/patric-chuzhbe/shortie/internal/models"
	"github.com/patric-chuzhbe/shortie/internal/service"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.gohtml"))

// urlPattern is the shape a target URL must match to be accepted by the
// shorten form.
var urlPattern = regexp.MustCompile(
	`https?://(www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_+.~#?&/=]*)`,
)

// redirectCacheControl is sent with slug redirects: the mapping is immutable
// once created, so clients may cache it for a week.
const redirectCacheControl = "public, max-age=604800"

// Router holds the HTTP handlers of the service.
type Router struct {
	urls *service.Service
	auth authenticator.Authenticator
}

// New assembles the chi router with logging and gzip middleware and the full
// route table.
func New(urls *service.Service, theAuth authenticator.Authenticator) *chi.Mux {
	theRouter := &Router{
		urls: urls,
		auth: theAuth,
	}

	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		gzippedhttp.GzipResponse,
	)
	router.Get(`/`, theRouter.GetRoot)
	router.Get(`/login`, theRouter.GetLogin)
	router.Post(`/login`, theRouter.PostLogin)
	router.Get(`/shorten`, theRouter.GetShorten)
	router.Post(`/shorten`, theRouter.PostShorten)
	router.Post(`/logout`, theRouter.PostLogout)
	router.Get(`/{slug}`, theRouter.GetRedirecttotargeturl)

	return router
}

// GetRoot shows the landing page, or sends an already-authenticated browser
// straight to the shorten page.
func (rt *Router) GetRoot(response http.ResponseWriter, request *http.Request) {
	if rt.auth.GetUserID(request) != "" {
		http.Redirect(response, request, "/shorten", http.StatusFound)
		return
	}

	rt.renderPage(response, "landing.gohtml", nil)
}

// GetLogin shows the combined login/signup form, or redirects a logged-in
// user to the shorten page.
func (rt *Router) GetLogin(response http.ResponseWriter, request *http.Request) {
	if rt.auth.GetUserID(request) != "" {
		http.Redirect(response, request, "/shorten", http.StatusFound)
		return
	}

	rt.renderPage(response, "login.gohtml", nil)
}

// PostLogin validates the submitted credentials and either logs the user in
// or registers a new account: an existing username must present the matching
// password, an unknown username becomes a new account unconditionally.
func (rt *Router) PostLogin(response http.ResponseWriter, request *http.Request) {
	redirectTo := request.URL.Query().Get("redirectTo")
	if redirectTo == "" {
		redirectTo = "/shorten"
	}

	if err := request.ParseForm(); err != nil {
		badRequest(response, models.FormResponse{FormError: "Invalid form data"})
		return
	}
	username := request.PostFormValue("username")
	password := request.PostFormValue("password")

	// Prior input is echoed back so the form can re-render, except the
	// password.
	fields := map[string]string{"username": username}
	fieldErrors := map[string]string{}
	if len(username) < 6 {
		fieldErrors["username"] = "Username must be atleast 6 chars long"
	}
	if len(password) < 6 {
		fieldErrors["password"] = "Password must be atleast 6 chars long"
	}
	if len(fieldErrors) > 0 {
		badRequest(response, models.FormResponse{FieldErrors: fieldErrors, Fields: fields})
		return
	}

	_, found, err := rt.auth.GetUser(request.Context(), username)
	if err != nil {
		internalServerError(response, err)
		return
	}

	// if user exists, perform login
	if found {
		usr, err := rt.auth.Login(request.Context(), username, password)
		if err != nil {
			internalServerError(response, err)
			return
		}
		if usr == nil {
			badRequest(response, models.FormResponse{
				Fields:    fields,
				FormError: "Username/Password combination is incorrect.",
			})
			return
		}
		rt.createUserSession(response, request, usr.ID, redirectTo)
		return
	}

	// else perform registration
	usr, err := rt.auth.Register(request.Context(), username, password)
	if err != nil {
		internalServerError(response, err)
		return
	}
	rt.createUserSession(response, request, usr.ID, redirectTo)
}

type shortenPageURL struct {
	Name      string
	Slug      string
	URL       string
	ShortURL  string
	CreatedAt string
}

type shortenPageData struct {
	Username string
	URLs     []shortenPageURL
}

// GetShorten lists the caller's shortened URLs. Anonymous browsers are sent
// to the login page with a redirectTo back here; a session whose user record
// is gone is logged out.
func (rt *Router) GetShorten(response http.ResponseWriter, request *http.Request) {
	userID, redirectTo := rt.auth.RequireUserID(request)
	if redirectTo != "" {
		http.Redirect(response, request, redirectTo, http.StatusFound)
		return
	}

	usr, found, err := rt.auth.GetUserByID(request.Context(), userID)
	if err != nil {
		internalServerError(response, err)
		return
	}
	if !found {
		rt.auth.Logout(response, request)
		return
	}

	urls, err := rt.urls.UserURLs(request.Context(), userID)
	if err != nil {
		internalServerError(response, err)
		return
	}

	pageData := shortenPageData{
		Username: usr.Username,
	}
	for _, url := range urls {
		pageData.URLs = append(pageData.URLs, shortenPageURL{
			Name:      url.Name,
			Slug:      url.Slug,
			URL:       url.URL,
			ShortURL:  rt.urls.ShortURL(url.Slug),
			CreatedAt: url.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	rt.renderPage(response, "shorten.gohtml", pageData)
}

// PostShorten validates the submitted URL and name, rejects a duplicate
// submission of the same URL by the same user, and creates the record.
func (rt *Router) PostShorten(response http.ResponseWriter, request *http.Request) {
	userID, redirectTo := rt.auth.RequireUserID(request)
	if redirectTo != "" {
		http.Redirect(response, request, redirectTo, http.StatusFound)
		return
	}

	if err := request.ParseForm(); err != nil {
		badRequest(response, models.FormResponse{FormError: "Invalid form data. Please try again"})
		return
	}
	targetURL := request.PostFormValue("url")
	name := request.PostFormValue("name")

	fields := map[string]string{"url": targetURL, "name": name}
	fieldErrors := map[string]string{}
	if !urlPattern.MatchString(targetURL) {
		fieldErrors["url"] = "Invalid URL. Please try the valid one!"
	}
	if len(name) == 0 {
		fieldErrors["name"] = "name must be atleast 1 character long"
	}
	if len(fieldErrors) > 0 {
		badRequest(response, models.FormResponse{FieldErrors: fieldErrors, Fields: fields})
		return
	}

	url, err := rt.urls.Shorten(request.Context(), userID, name, targetURL)
	if errors.Is(err, service.ErrConflict) {
		badRequest(response, models.FormResponse{
			FieldErrors: map[string]string{
				"url": "URL already shortened. Please try a new one!",
			},
		})
		return
	}
	if err != nil {
		internalServerError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, models.ShortenResponse{
		URL:  url.URL,
		Slug: url.Slug,
	})
}

// PostLogout clears the session and sends the browser to the login page.
func (rt *Router) PostLogout(response http.ResponseWriter, request *http.Request) {
	rt.auth.Logout(response, request)
}

// GetRedirecttotargeturl resolves a slug and redirects to the stored target
// with a one-week cache header. An unknown slug redirects to the site root
// instead of dead-ending on a 404.
func (rt *Router) GetRedirecttotargeturl(response http.ResponseWriter, request *http.Request) {
	slug := chi.URLParam(request, "slug")

	target, found, err := rt.urls.Resolve(request.Context(), slug)
	if err != nil {
		internalServerError(response, err)
		return
	}
	if !found {
		http.Redirect(response, request, "/", http.StatusFound)
		return
	}

	response.Header().Set("Cache-Control", redirectCacheControl)
	http.Redirect(response, request, target, http.StatusFound)
}

func (rt *Router) createUserSession(
	response http.ResponseWriter,
	request *http.Request,
	userID string,
	redirectTo string,
) {
	if err := rt.auth.CreateUserSession(response, request, userID, redirectTo); err != nil {
		internalServerError(response, err)
	}
}

func (rt *Router) renderPage(response http.ResponseWriter, name string, data interface{}) {
	response.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(response, name, data); err != nil {
		logger.Log.Debugln("Error rendering the page template: ", zap.Error(err))
	}
}

func writeJSON(response http.ResponseWriter, statusCode int, payload interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(statusCode)
	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Debugln("Error encoding the response payload: ", zap.Error(err))
	}
}

func badRequest(response http.ResponseWriter, payload models.FormResponse) {
	writeJSON(response, http.StatusBadRequest, payload)
}

func internalServerError(response http.ResponseWriter, err error) {
	logger.Log.Debugln("Error handling the request: ", zap.Error(err))
	response.WriteHeader(http.StatusInternalServerError)
}

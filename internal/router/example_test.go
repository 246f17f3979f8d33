package router

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/patric-chuzhbe/shortie/internal/auth"
	"github.com/patric-chuzhbe/shortie/internal/db/memorystorage"
	"github.com/patric-chuzhbe/shortie/internal/hasher"
	"github.com/patric-chuzhbe/shortie/internal/logger"
	"github.com/patric-chuzhbe/shortie/internal/service"
	"github.com/patric-chuzhbe/shortie/internal/session"
)

func newExampleServer() *httptest.Server {
	if err := logger.Init("info"); err != nil {
		panic(err)
	}

	db, err := memorystorage.New()
	if err != nil {
		panic(err)
	}

	sessions, err := session.New(testCookieName, testSigningSecret, time.Hour, false)
	if err != nil {
		panic(err)
	}

	testSlugs = nil

	return httptest.NewServer(New(
		service.New(db, testSlugGenerator, testShortURLBase),
		auth.New(db, hasher.New(4), sessions),
	))
}

func postForm(client *http.Client, target string, form url.Values, cookie *http.Cookie) *http.Response {
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		panic(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := client.Do(req)
	if err != nil {
		panic(err)
	}

	return resp
}

func sessionCookie(client *http.Client, serverURL string) *http.Cookie {
	resp := postForm(client, serverURL+"/login", url.Values{
		"username": {"johndoe"},
		"password": {"hunter22"},
	}, nil)
	defer resp.Body.Close()

	return resp.Cookies()[0]
}

func ExampleRouter_PostShorten() {
	server := newExampleServer()
	defer server.Close()

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Returning http.ErrUseLastResponse tells the client to not follow redirects
			return http.ErrUseLastResponse
		},
	}

	cookie := sessionCookie(client, server.URL)

	resp := postForm(client, server.URL+"/shorten", url.Values{
		"url":  {"http://example.com"},
		"name": {"example"},
	}, cookie)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		panic(err)
	}

	fmt.Println("Status Code:", resp.StatusCode)
	fmt.Print(string(b))

	// Output:
	// Status Code: 200
	// {"url":"http://example.com","slug":"testslug000"}
}

func ExampleRouter_GetRedirecttotargeturl() {
	server := newExampleServer()
	defer server.Close()

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Returning http.ErrUseLastResponse tells the client to not follow redirects
			return http.ErrUseLastResponse
		},
	}

	cookie := sessionCookie(client, server.URL)

	resp := postForm(client, server.URL+"/shorten", url.Values{
		"url":  {"http://example.org"},
		"name": {"example"},
	}, cookie)
	resp.Body.Close()

	redirectResp, err := client.Get(server.URL + "/testslug000")
	if err != nil {
		panic(err)
	}
	defer redirectResp.Body.Close()

	unknownResp, err := client.Get(server.URL + "/doesnotexist123")
	if err != nil {
		panic(err)
	}
	defer unknownResp.Body.Close()

	fmt.Println("Redirect Status:", redirectResp.StatusCode)
	fmt.Println("Location:", redirectResp.Header.Get("Location"))
	fmt.Println("Cache-Control:", redirectResp.Header.Get("Cache-Control"))
	fmt.Println("Unknown Slug Status:", unknownResp.StatusCode)
	fmt.Println("Unknown Slug Location:", unknownResp.Header.Get("Location"))

	// Output:
	// Redirect Status: 302
	// Location: http://example.org
	// Cache-Control: public, max-age=604800
	// Unknown Slug Status: 302
	// Unknown Slug Location: /
}

// Package jsondb is a JSON-file-backed storage implementation. All data
// lives in in-memory maps and is flushed to the file on Close. It serves
// development and tests; postgresdb is the production backend.
package jsondb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/shortie/internal/models"
	"github.com/patric-chuzhbe/shortie/internal/user"
)

type JSONDB struct {
	fileName string
	Cache    CacheStruct
}

// CacheStruct holds the whole database. UserSlugs keeps per-user slugs in
// insertion order, which is the order FindURLsByUser reports.
type CacheStruct struct {
	Users        map[string]*user.User
	UsernameToID map[string]string
	SlugToURL    map[string]*models.URL
	UserSlugs    map[string][]string
}

func emptyCache() CacheStruct {
	return CacheStruct{
		Users:        map[string]*user.User{},
		UsernameToID: map[string]string{},
		SlugToURL:    map[string]*models.URL{},
		UserSlugs:    map[string][]string{},
	}
}

func initDBFile(fileName string) error {
	dbFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(dbFile, `{
	"Users": {},
	"UsernameToID": {},
	"SlugToURL": {},
	"UserSlugs": {}
}`)
	if err != nil {
		return err
	}
	return dbFile.Close()
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %s", err)
	}

	file, err2 := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err2 != nil {
		return fmt.Errorf("error opening file: %s", err2)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %s", err)
	}

	return nil
}

func parseJSONFile(fileName string, cacheMap *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	err = decoder.Decode(cacheMap)
	if err != nil {
		return err
	}

	return nil
}

func New(fileName string) (*JSONDB, error) {
	jsonDB := JSONDB{
		fileName: fileName,
		Cache:    emptyCache(),
	}

	err := parseJSONFile(jsonDB.fileName, &jsonDB.Cache)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		err := initDBFile(fileName)
		if err != nil {
			return nil, err
		}
		err = parseJSONFile(jsonDB.fileName, &jsonDB.Cache)
		if err != nil {
			return nil, err
		}
	}

	return &jsonDB, nil
}

// NewEmpty returns a JSONDB with an initialized cache and no backing file.
// Callers that use it must not rely on Close for persistence.
func NewEmpty() *JSONDB {
	return &JSONDB{
		Cache: emptyCache(),
	}
}

func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

func (db *JSONDB) Close() error {
	err := writeToJSONFile(db.fileName, db.Cache)
	if err != nil {
		return err
	}

	return nil
}

// CreateUser assigns usr a fresh UUID, stores it and returns the ID.
func (db *JSONDB) CreateUser(ctx context.Context, usr *user.User) (string, error) {
	userID := uuid.New().String()
	stored := *usr
	stored.ID = userID

	db.Cache.Users[userID] = &stored
	db.Cache.UsernameToID[stored.Username] = userID

	return userID, nil
}

func (db *JSONDB) FindUserByUsername(ctx context.Context, username string) (*user.User, bool, error) {
	userID, found := db.Cache.UsernameToID[username]
	if !found {
		return nil, false, nil
	}

	return db.FindUserByID(ctx, userID)
}

func (db *JSONDB) FindUserByID(ctx context.Context, userID string) (*user.User, bool, error) {
	usr, found := db.Cache.Users[userID]
	if !found {
		return nil, false, nil
	}

	return usr, true, nil
}

func (db *JSONDB) InsertURL(ctx context.Context, url *models.URL) error {
	stored := *url
	db.Cache.SlugToURL[stored.Slug] = &stored

	if !funk.ContainsString(db.Cache.UserSlugs[stored.UserID], stored.Slug) {
		db.Cache.UserSlugs[stored.UserID] = append(db.Cache.UserSlugs[stored.UserID], stored.Slug)
	}

	return nil
}

func (db *JSONDB) FindURLsByUser(ctx context.Context, userID string) ([]models.URL, error) {
	result := []models.URL{}
	for _, slug := range db.Cache.UserSlugs[userID] {
		if url, found := db.Cache.SlugToURL[slug]; found {
			result = append(result, *url)
		}
	}

	return result, nil
}

func (db *JSONDB) FindURLByUserAndTarget(ctx context.Context, userID, target string) (*models.URL, bool, error) {
	for _, slug := range db.Cache.UserSlugs[userID] {
		url, found := db.Cache.SlugToURL[slug]
		if found && url.URL == target {
			return url, true, nil
		}
	}

	return nil, false, nil
}

func (db *JSONDB) FindURLBySlug(ctx context.Context, slug string) (*models.URL, bool, error) {
	url, found := db.Cache.SlugToURL[slug]
	if !found {
		return nil, false, nil
	}

	return url, true, nil
}

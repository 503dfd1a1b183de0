package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/diewo77/go-library/internal/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixtures is the content of one fixture file. Every section is optional.
//
//	users:
//	  - username: admin
//	    externalId: 00000000-0000-0000-0000-000000000001
//	    roles: [admin]
//	books:
//	  - title: Dune
type Fixtures struct {
	Users  []UserFixture  `yaml:"users"`
	Genres []GenreFixture `yaml:"genres"`
	Books  []BookFixture  `yaml:"books"`
}

type UserFixture struct {
	Username   string   `yaml:"username"`
	ExternalID string   `yaml:"externalId"`
	Roles      []string `yaml:"roles"`
	IsVerified bool     `yaml:"isVerified"`
}

type GenreFixture struct {
	Name string `yaml:"name"`
}

type BookFixture struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// ParseFixtures decodes one YAML document.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("db: parse fixtures: %w", err)
	}
	return &f, nil
}

// LoadFixtures applies every .yml/.yaml file in dir, in name order.
// Records are matched on username, genre name or book title, so loading
// twice does not duplicate them.
func LoadFixtures(ctx context.Context, db *gorm.DB, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("db: read fixtures dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yml" || ext == ".yaml") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	total := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return total, fmt.Errorf("db: read %s: %w", path, err)
		}
		f, err := ParseFixtures(data)
		if err != nil {
			return total, fmt.Errorf("%s: %w", path, err)
		}
		n, err := f.Apply(ctx, db)
		total += n
		if err != nil {
			return total, fmt.Errorf("%s: %w", path, err)
		}
	}
	return total, nil
}

// Apply inserts the fixtures in one transaction and returns how many
// records it wrote or matched.
func (f *Fixtures) Apply(ctx context.Context, db *gorm.DB) (int, error) {
	n := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range f.Users {
			user := models.User{
				Username:   u.Username,
				Roles:      models.ParseRoles(strings.Join(u.Roles, ",")),
				IsVerified: u.IsVerified,
			}
			if u.ExternalID != "" {
				ext := u.ExternalID
				user.ExternalID = &ext
			}
			if len(user.Roles) == 0 {
				user.Roles = models.Roles{models.RoleRegular}
			}
			if err := tx.Where(models.User{Username: u.Username}).Attrs(user).FirstOrCreate(&user).Error; err != nil {
				return fmt.Errorf("user %q: %w", u.Username, err)
			}
			n++
		}
		for _, g := range f.Genres {
			genre := models.Genre{Name: g.Name}
			if err := tx.Where(models.Genre{Name: g.Name}).FirstOrCreate(&genre).Error; err != nil {
				return fmt.Errorf("genre %q: %w", g.Name, err)
			}
			n++
		}
		for _, b := range f.Books {
			book := models.Book{Title: b.Title}
			if b.Description != "" {
				desc := b.Description
				book.Description = &desc
			}
			if err := tx.Where(models.Book{Title: b.Title}).Attrs(book).FirstOrCreate(&book).Error; err != nil {
				return fmt.Errorf("book %q: %w", b.Title, err)
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("db: apply fixtures: %w", err)
	}
	return n, nil
}

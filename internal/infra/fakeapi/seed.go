package fakeapi

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"listkeeper/internal/domain/entity"
)

// Seed is the initial content of a fake service, loaded from YAML.
// Records are created in file order, so ids follow it starting at 1.
//
//	users:
//	  - name: fer
//	    password: "9920"
//	lists:
//	  - name: Groceries
//	    created: "2024-05-01"
//	    user: 1
//	articles:
//	  - name: Milk
//	    content: 2 litres
//	    lists: [1]
type Seed struct {
	Users []struct {
		Name     string `yaml:"name"`
		Password string `yaml:"password"`
	} `yaml:"users"`
	Lists []struct {
		Name    string `yaml:"name"`
		Created string `yaml:"created"`
		User    int64  `yaml:"user"`
	} `yaml:"lists"`
	Articles []struct {
		Name    string  `yaml:"name"`
		Content string  `yaml:"content"`
		Lists   []int64 `yaml:"lists"`
	} `yaml:"articles"`
}

// LoadSeed reads a seed file.
// The path parameter is expected to come from a trusted source (command-line flag or env).
func LoadSeed(path string) (*Seed, error) {
	// #nosec G304 -- path is provided by the operator, not by request input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates seed YAML.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	if err := validateSeed(&seed); err != nil {
		return nil, fmt.Errorf("seed validation failed: %w", err)
	}
	return &seed, nil
}

func validateSeed(seed *Seed) error {
	var errs []error
	for i, u := range seed.Users {
		if u.Name == "" {
			errs = append(errs, fmt.Errorf("users[%d]: name is required", i))
		}
	}
	for i, l := range seed.Lists {
		if l.Name == "" {
			errs = append(errs, fmt.Errorf("lists[%d]: name is required", i))
		}
		if l.User <= 0 || l.User > int64(len(seed.Users)) {
			errs = append(errs, fmt.Errorf("lists[%d]: user %d does not exist", i, l.User))
		}
	}
	for i, a := range seed.Articles {
		if a.Name == "" {
			errs = append(errs, fmt.Errorf("articles[%d]: name is required", i))
		}
		for _, id := range a.Lists {
			if id <= 0 || id > int64(len(seed.Lists)) {
				errs = append(errs, fmt.Errorf("articles[%d]: list %d does not exist", i, id))
			}
		}
	}
	return errors.Join(errs...)
}

// Apply creates every seed record in the store.
func (seed *Seed) Apply(s *Store) error {
	for _, u := range seed.Users {
		s.CreateUser(entity.User{Name: u.Name, Password: u.Password})
	}
	for _, l := range seed.Lists {
		if _, err := s.CreateList(entity.List{Name: l.Name, CreationDate: l.Created, OwnerUserID: l.User}); err != nil {
			return fmt.Errorf("seed list %q: %w", l.Name, err)
		}
	}
	for _, a := range seed.Articles {
		if _, err := s.CreateArticle(entity.Article{Name: a.Name, Content: a.Content, ListIDs: a.Lists}); err != nil {
			return fmt.Errorf("seed article %q: %w", a.Name, err)
		}
	}
	return nil
}

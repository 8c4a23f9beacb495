package main

import (
	"log"
	"time"

	"github.com/quasilyte/gdata/v2"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

const (
	sessionObject   = "sandbox"
	sessionProperty = "session"
)

// Session summarizes the previous sandbox runs. It is saved through gdata so
// it lands in the platform's application data directory.
type Session struct {
	Runs      int               `yaml:"runs"`
	LastRun   time.Time         `yaml:"lastRun"`
	LastTicks int               `yaml:"lastTicks"`
	Faults    map[string]uint64 `yaml:"faults"`
}

// sessionStore may hold a nil manager, in which case nothing is persisted.
type sessionStore struct {
	manager *gdata.Manager
}

func openSessionStore() sessionStore {
	manager, err := gdata.Open(gdata.Config{AppName: "sekai_sandbox"})
	if err != nil {
		log.Printf("Warning: session data unavailable: %v", err)
		return sessionStore{}
	}
	return sessionStore{manager: manager}
}

func (s sessionStore) load() (Session, error) {
	if s.manager == nil || !s.manager.ObjectPropExists(sessionObject, sessionProperty) {
		return Session{}, nil
	}
	data, err := s.manager.LoadObjectProp(sessionObject, sessionProperty)
	if err != nil {
		return Session{}, eris.Wrap(err, "failed to load session")
	}
	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return Session{}, eris.Wrap(err, "failed to unmarshal session")
	}
	return sess, nil
}

func (s sessionStore) save(sess Session) error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(sess)
	if err != nil {
		return eris.Wrap(err, "failed to marshal session")
	}
	if err := s.manager.SaveObjectProp(sessionObject, sessionProperty, data); err != nil {
		return eris.Wrap(err, "failed to save session")
	}
	return nil
}

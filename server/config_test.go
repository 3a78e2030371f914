package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_ParseDBConnString(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Database
		expectErr bool
	}{
		{
			name:   "inmem with no params",
			input:  "inmem",
			expect: Database{Type: DatabaseInMemory},
		},
		{
			name:   "sqlite with data dir",
			input:  "sqlite:/var/lib/stlspec",
			expect: Database{Type: DatabaseSQLite, DataDir: "/var/lib/stlspec"},
		},
		{
			name:   "engine name is case-insensitive",
			input:  "SQLite:data",
			expect: Database{Type: DatabaseSQLite, DataDir: "data"},
		},
		{
			name:      "inmem with params",
			input:     "inmem:/somewhere",
			expectErr: true,
		},
		{
			name:      "sqlite without data dir",
			input:     "sqlite",
			expectErr: true,
		},
		{
			name:      "none is rejected",
			input:     "none",
			expectErr: true,
		},
		{
			name:      "unknown engine",
			input:     "postgres:somewhere",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseDBConnString(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Config_FillDefaults(t *testing.T) {
	assert := assert.New(t)

	var cfg Config

	filled := cfg.FillDefaults()

	assert.NotEmpty(filled.TokenSecret)
	assert.Equal(DatabaseInMemory, filled.DB.Type)
	assert.Equal(time.Second, filled.UnauthDelay())
}

func Test_Config_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       Config
		expectErr bool
	}{
		{
			name: "filled defaults are valid",
			cfg:  Config{}.FillDefaults(),
		},
		{
			name: "secret too short",
			cfg: Config{
				TokenSecret: []byte("shh"),
				DB:          Database{Type: DatabaseInMemory},
			},
			expectErr: true,
		},
		{
			name: "secret too long",
			cfg: Config{
				TokenSecret: make([]byte, MaxSecretSize+1),
				DB:          Database{Type: DatabaseInMemory},
			},
			expectErr: true,
		},
		{
			name: "sqlite db without data dir",
			cfg: Config{
				TokenSecret: make([]byte, MinSecretSize),
				DB:          Database{Type: DatabaseSQLite},
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := tc.cfg.Validate()
			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

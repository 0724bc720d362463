package github_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	ghsvc "github.com/Caleb5Mathew/slack-search-proxy/pkg/service/github"
)

func TestNewWithTokenValidation(t *testing.T) {
	loc := ghsvc.Location{Owner: "acme", Repo: "usage", Path: "questions.csv"}

	client, err := ghsvc.NewWithToken("ghp_testtoken", loc)
	gt.NoError(t, err).Required()
	gt.Value(t, client).NotNil()

	_, err = ghsvc.NewWithToken("", loc)
	gt.Value(t, err).NotNil()

	_, err = ghsvc.NewWithToken("ghp_testtoken", ghsvc.Location{Owner: "acme"})
	gt.Value(t, err).NotNil()
}

func TestNewWithAppAuthValidation(t *testing.T) {
	_, err := ghsvc.NewWithAppAuth(123, 456, "not a pem key", ghsvc.Location{})
	gt.Value(t, err).NotNil()

	// A malformed private key is rejected by the App transport.
	_, err = ghsvc.NewWithAppAuth(123, 456, "not a pem key",
		ghsvc.Location{Owner: "acme", Repo: "usage", Path: "questions.csv"})
	gt.Value(t, err).NotNil()
}

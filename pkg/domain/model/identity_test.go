package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/model"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
)

func TestIdentityKey(t *testing.T) {
	id := model.Identity{
		TeamID: types.TeamID("T001"),
		UserID: types.UserID("U001"),
	}
	gt.Value(t, id.Key()).Equal("T001:U001")
}

func TestIdentityValidate(t *testing.T) {
	gt.NoError(t, model.Identity{TeamID: "T001", UserID: "U001"}.Validate())
	gt.Value(t, model.Identity{UserID: "U001"}.Validate()).NotNil()
	gt.Value(t, model.Identity{TeamID: "T001"}.Validate()).NotNil()
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		name      string
		firstName string
		lastName  string
	}{
		{"Jane Smith", "Jane", "Smith"},
		{"Jane van der Berg", "Jane", "van der Berg"},
		{"madonna", "madonna", ""},
		{"", "", ""},
	}

	for _, tc := range cases {
		firstName, lastName := model.SplitName(tc.name)
		gt.Value(t, firstName).Equal(tc.firstName)
		gt.Value(t, lastName).Equal(tc.lastName)
	}
}

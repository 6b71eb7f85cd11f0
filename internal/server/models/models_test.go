package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserView_OmitsPasswordHash(t *testing.T) {
	u := &User{ID: 3, Name: "Ann", Email: "a@x.com", PhoneNumber: "+12345678", PasswordHash: "$2a$secret"}

	b, err := json.Marshal(u.View())
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":3,"name":"Ann","email":"a@x.com","phoneNumber":"+12345678"}`, string(b))
	assert.NotContains(t, string(b), "secret")
}

func TestContact_ApplyKeepsOwner(t *testing.T) {
	c := &Contact{ID: 9, UserID: 4, FirstName: "Old", Email: "old@x.com", PhoneNumber: "+1111111"}

	c.Apply(ContactFields{FirstName: "New", LastName: "Name", Email: "new@x.com", PhoneNumber: "+2222222"})

	assert.Equal(t, &ContactView{ID: 9, UserID: 4, FirstName: "New", LastName: "Name", Email: "new@x.com", PhoneNumber: "+2222222"}, c.View())
}

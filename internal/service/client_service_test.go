package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rafuego/symphony-v3/internal/models"
	"github.com/Rafuego/symphony-v3/internal/plan"
)

func newClientService() (*ClientService, *fakeClientRepo, *fakeRequestRepo) {
	clients := newFakeClientRepo()
	requests := newFakeRequestRepo()
	return NewClientService(clients, requests, plan.DefaultCatalog()), clients, requests
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Acme Corp":      "acme-corp",
		"  Späce & Co. ": "sp-ce-co",
		"UPPER":          "upper",
		"already-fine":   "already-fine",
	}
	for in, want := range cases {
		require.Equal(t, want, slugify(in), "input %q", in)
	}
}

func TestCreateClientDefaultsAndToken(t *testing.T) {
	svc, _, _ := newClientService()

	c, err := svc.Create(context.Background(), ClientInput{Name: "Acme Corp"})
	require.NoError(t, err)
	require.Equal(t, "growth", c.Plan)
	require.Equal(t, "acme-corp", c.Slug)
	require.NotEmpty(t, c.AccessToken)
	require.False(t, c.PasswordEnabled)
}

func TestCreateClientValidation(t *testing.T) {
	svc, _, _ := newClientService()

	_, err := svc.Create(context.Background(), ClientInput{Name: "  "})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), ClientInput{Name: "Acme", Plan: "platinum"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateClientPasswordOnlyWhenEnabled(t *testing.T) {
	svc, repo, _ := newClientService()

	c, err := svc.Create(context.Background(), ClientInput{Name: "Acme", Password: "pw", PasswordEnabled: true})
	require.NoError(t, err)
	require.True(t, c.PasswordEnabled)
	require.NotEmpty(t, repo.hashes[c.ID])

	c2, err := svc.Create(context.Background(), ClientInput{Name: "Beta", Password: "pw", PasswordEnabled: false})
	require.NoError(t, err)
	require.False(t, c2.PasswordEnabled)
	require.Empty(t, repo.hashes[c2.ID])
}

func TestGetWithRequestsSortsForDisplay(t *testing.T) {
	svc, clients, requests := newClientService()
	c := &models.Client{Name: "Acme", Plan: "launch"}
	require.NoError(t, clients.Create(context.Background(), c, ""))

	add := func(status models.Status, prio int) string {
		r := &models.Request{ClientID: c.ID, Title: "t", Status: status, Priority: prio}
		require.NoError(t, requests.Create(context.Background(), r))
		return r.ID
	}
	done := add(models.StatusCompleted, 0)
	q2 := add(models.StatusInQueue, 2)
	q1 := add(models.StatusInQueue, 1)
	review := add(models.StatusInReview, 0)
	working := add(models.StatusInProgress, 0)

	_, reqs, err := svc.GetWithRequests(context.Background(), c.ID)
	require.NoError(t, err)

	ids := make([]string, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}
	require.Equal(t, []string{working, review, q1, q2, done}, ids)
}

func TestGetWithRequestsUnknownClient(t *testing.T) {
	svc, _, _ := newClientService()
	_, _, err := svc.GetWithRequests(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateClientClearsOverrides(t *testing.T) {
	svc, _, _ := newClientService()
	c, err := svc.Create(context.Background(), ClientInput{Name: "Acme", CustomMaxActive: intPtr(4)})
	require.NoError(t, err)

	var cleared *int
	got, err := svc.Update(context.Background(), c.ID, ClientUpdateInput{CustomMaxActive: &cleared})
	require.NoError(t, err)
	require.Nil(t, got.CustomMaxActive)
}

func TestEntitlements(t *testing.T) {
	svc, _, _ := newClientService()
	price, maxActive, designers := svc.Entitlements(&models.Client{Plan: "scale"})
	require.Equal(t, 5000, price)
	require.Equal(t, 5, maxActive)
	require.Equal(t, "3-4", designers)
}

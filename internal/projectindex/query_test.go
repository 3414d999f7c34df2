package projectindex_test

import (
	"testing"

	"github.com/rpggio/buildboard/internal/domain/project"
	"github.com/rpggio/buildboard/internal/projectindex"
	"github.com/stretchr/testify/require"
)

func TestSearch_BlankQueryReturnsAll(t *testing.T) {
	idx := projectindex.Build(harborProjects())

	for _, q := range []string{"", "   ", "--//..", "\t\n"} {
		require.ElementsMatch(t, []string{"P1", "P2"}, projectIDs(idx.Search(q)), "query %q", q)
	}
}

func TestSearch_ANDSemantics(t *testing.T) {
	idx := projectindex.Build([]project.Project{
		{ID: "R1", Name: "Riverside Complex", Description: "phase one renovation"},
		{ID: "R2", Name: "Riverside Depot", Description: "demolition"},
	})

	require.Equal(t, []string{"R1"}, projectIDs(idx.Search("riverside renovation")))
	require.Empty(t, idx.Search("riverside demolition complex"))
	require.Equal(t, []string{"R2"}, projectIDs(idx.Search("riverside demolition")))
	require.Equal(t, []string{"R1", "R2"}, projectIDs(idx.Search("RIVERSIDE")))
}

func TestSearch_UnknownTokenIsEmpty(t *testing.T) {
	idx := projectindex.Build(harborProjects())

	require.Empty(t, idx.Search("zzzznotaword"))
	require.Empty(t, idx.Search("harbor zzzznotaword"))
}

func TestSearch_NoPartialMatches(t *testing.T) {
	idx := projectindex.Build(harborProjects())

	require.Empty(t, idx.Search("harb"))
	require.Empty(t, idx.Search("bridges"))
}

func TestSearch_NilIndex(t *testing.T) {
	var idx *projectindex.Index
	require.Empty(t, idx.Search("harbor"))
	require.Empty(t, idx.Filter(projectindex.Filter{Status: "Active"}))
}

func TestSearch_EndToEnd(t *testing.T) {
	idx := projectindex.Build(harborProjects())

	require.ElementsMatch(t, []string{"P1", "P2"}, projectIDs(idx.Search("harbor")))
	require.Equal(t, []string{"P1"}, projectIDs(idx.Search("harbor retrofit")))
	require.Equal(t, []string{"P2"}, projectIDs(idx.Filter(projectindex.Filter{Status: "Draft"})))
	require.Equal(t, []string{"P1"}, projectIDs(idx.Filter(projectindex.Filter{ClientID: "C1"})))
}

func TestFilter_StatusCaseInsensitive(t *testing.T) {
	idx := projectindex.Build(harborProjects())

	require.Equal(t, []string{"P1"}, projectIDs(idx.Filter(projectindex.Filter{Status: "active"})))
	require.Equal(t, []string{"P1"}, projectIDs(idx.Filter(projectindex.Filter{Query: "harbor", Status: "ACTIVE"})))
	require.Empty(t, idx.Filter(projectindex.Filter{Status: "closed"}))
}

func TestFilter_BlankFiltersIgnored(t *testing.T) {
	idx := projectindex.Build(harborProjects())

	got := idx.Filter(projectindex.Filter{Status: "  ", ClientID: " "})
	require.ElementsMatch(t, []string{"P1", "P2"}, projectIDs(got))
}

func TestFilter_ClientSelectsWorkingSet(t *testing.T) {
	idx := projectindex.Build([]project.Project{
		{ID: "P1", Name: "Harbor Bridge", ClientID: "C1", Status: "Active"},
		{ID: "P2", Name: "Harbor Pier", ClientID: "C1", Status: "Draft"},
		{ID: "P3", Name: "Harbor Wall", ClientID: "C2", Status: "Active"},
	})

	require.Equal(t, []string{"P1", "P2"}, projectIDs(idx.Filter(projectindex.Filter{ClientID: "C1", Query: "harbor"})))
	require.Equal(t, []string{"P1", "P2"}, projectIDs(idx.Filter(projectindex.Filter{ClientID: "C1", Query: "wall"})))
	require.Equal(t, []string{"P1", "P2"}, projectIDs(idx.Filter(projectindex.Filter{ClientID: "C1", Query: "zzzznotaword"})))
	require.Equal(t, []string{"P1"}, projectIDs(idx.Filter(projectindex.Filter{ClientID: "C1", Query: "pier", Status: "active"})))
	require.Empty(t, idx.Filter(projectindex.Filter{ClientID: "C9", Query: "harbor"}))
}

func TestFilter_StatusValueTrimmed(t *testing.T) {
	idx := projectindex.Build(harborProjects())

	require.Equal(t, []string{"P1"}, projectIDs(idx.Filter(projectindex.Filter{Status: " active "})))
}

func TestFilter_UnknownClientIsEmpty(t *testing.T) {
	idx := projectindex.Build(harborProjects())
	require.Empty(t, idx.Filter(projectindex.Filter{ClientID: "nobody"}))
}

func TestClientMatches_Tiers(t *testing.T) {
	idx := projectindex.Build([]project.Project{
		{ID: "P1", Name: "A", ClientID: "Client-001"},
		{ID: "P2", Name: "B", ClientID: "CLIENT-001"},
		{ID: "P3", Name: "C", ClientID: " client-002 "},
		{ID: "P4", Name: "D", ClientID: "client-003"},
	})

	t.Run("exact key", func(t *testing.T) {
		require.Equal(t, []string{"P1"}, projectIDs(idx.ClientMatches("Client-001")))
	})
	t.Run("case-insensitive key", func(t *testing.T) {
		require.Equal(t, []string{"P1", "P2"}, projectIDs(idx.ClientMatches("client-001")))
	})
	t.Run("full scan", func(t *testing.T) {
		require.Equal(t, []string{"P3"}, projectIDs(idx.ClientMatches("CLIENT-002")))
	})
	t.Run("no match", func(t *testing.T) {
		require.Empty(t, idx.ClientMatches("client-999"))
	})
}

func TestFilter_ClientFallbackCase(t *testing.T) {
	idx := projectindex.Build([]project.Project{
		{ID: "P1", Name: "Harbor Bridge", ClientID: "Client-001", Status: "Active"},
	})

	require.Equal(t, []string{"P1"}, projectIDs(idx.Filter(projectindex.Filter{ClientID: "client-001"})))
}

func TestFilter_ResultsAreCallerOwned(t *testing.T) {
	idx := projectindex.Build(harborProjects())

	got := idx.Filter(projectindex.Filter{ClientID: "C1"})
	got[0].Name = "Mutated"
	p, _ := idx.Project("P1")
	require.Equal(t, "Harbor Bridge", p.Name)
}

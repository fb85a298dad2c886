package kbucket

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RoutingTableTestSuite struct {
	suite.Suite
	table *RoutingTable
}

func (s *RoutingTableTestSuite) SetupTest() {
	table, err := New(Config{
		LocalID:           []byte{0x00, 0x00, 0x00, 0x00},
		ContactsPerBucket: 2,
		ContactsToPing:    1,
	})
	s.Require().NoError(err)
	s.table = table
}

func TestRoutingTableTestSuite(t *testing.T) {
	suite.Run(t, new(RoutingTableTestSuite))
}

// S1 — simple add/contains.
func (s *RoutingTableTestSuite) TestSimpleAddContains() {
	added, err := s.table.Add(Contact{Id: []byte{0x00, 0x00, 0x00, 0x01}})
	s.Require().NoError(err)
	s.True(added)
	s.True(s.table.Contains([]byte{0x00, 0x00, 0x00, 0x01}))
	s.Equal(1, s.table.Count())
}

// S2 — nearest ordering.
func (s *RoutingTableTestSuite) TestNearestOrdering() {
	ids := [][]byte{
		{0x00, 0x00, 0x00, 0x01},
		{0x80, 0x00, 0x00, 0x00},
		{0x00, 0x00, 0x00, 0x02},
	}
	for _, id := range ids {
		_, err := s.table.Add(Contact{Id: id})
		s.Require().NoError(err)
	}

	closest := s.table.Closest([]byte{0x00, 0x00, 0x00, 0x00})
	s.Require().Len(closest, 3)
	s.Equal([]byte{0x00, 0x00, 0x00, 0x01}, closest[0].Id)
	s.Equal([]byte{0x00, 0x00, 0x00, 0x02}, closest[1].Id)
	s.Equal([]byte{0x80, 0x00, 0x00, 0x00}, closest[2].Id)
}

// S3 — split.
func (s *RoutingTableTestSuite) TestSplit() {
	ids := [][]byte{
		{0x00, 0x00, 0x00, 0x01},
		{0x00, 0x00, 0x00, 0x02},
		{0x80, 0x00, 0x00, 0x00},
	}
	for _, id := range ids {
		_, err := s.table.Add(Contact{Id: id})
		s.Require().NoError(err)
	}

	s.Equal(3, s.table.Count())
	s.False(s.table.root.isLeaf())

	farLeaf, _ := descend(s.table.root, []byte{0x80, 0x00, 0x00, 0x00})
	s.True(farLeaf.doNotSplit)
}

// Review emission on an overflowing, non-splittable bucket. The far leaf
// is constructed directly (white-box) already split and marked
// do-not-split, rather than requiring unrelated near-side fills to
// provoke the same split organically.
func (s *RoutingTableTestSuite) TestReviewEmission() {
	far := newLeaf()
	far.doNotSplit = true
	near := newLeaf()
	s.table.root = &node{left: near, right: far}

	c1 := Contact{Id: []byte{0x80, 0x00, 0x00, 0x01}}
	c2 := Contact{Id: []byte{0x80, 0x00, 0x00, 0x02}}
	c3 := Contact{Id: []byte{0x80, 0x00, 0x00, 0x03}}

	added, err := s.table.Add(c1)
	s.Require().NoError(err)
	s.True(added)

	added, err = s.table.Add(c2)
	s.Require().NoError(err)
	s.True(added)

	var reviewed ReviewEvent
	s.table.OnReviewRequested(func(e ReviewEvent) { reviewed = e })

	added, err = s.table.Add(c3)
	s.Require().NoError(err)
	s.False(added)

	s.Require().Len(reviewed.Oldest, 1)
	s.Equal(c1.Id, reviewed.Oldest[0].Id)
	s.Equal(c3.Id, reviewed.Newest.Id)
	s.Equal(2, s.table.Count())
	s.False(s.table.Contains(c3.Id))
}

func (s *RoutingTableTestSuite) TestRemove() {
	c := Contact{Id: []byte{0x00, 0x00, 0x00, 0x01}}
	_, err := s.table.Add(c)
	s.Require().NoError(err)

	s.True(s.table.Remove(c.Id))
	s.False(s.table.Contains(c.Id))
	s.False(s.table.Remove(c.Id))
}

func (s *RoutingTableTestSuite) TestClear() {
	for i := 0; i < 5; i++ {
		_, err := s.table.Add(Contact{Id: []byte{byte(i)}})
		s.Require().NoError(err)
	}

	s.table.Clear()
	s.Equal(0, s.table.Count())
	s.Empty(s.table.Iterate())
}

func (s *RoutingTableTestSuite) TestInvalidArgument() {
	added, err := s.table.Add(Contact{})
	s.False(added)
	s.ErrorIs(err, ErrInvalidArgument)
	s.Equal(0, s.table.Count())
}

func (s *RoutingTableTestSuite) TestEventsAddedAndRemoved() {
	var added, removed Contact

	s.table.OnAdded(func(c Contact) { added = c })
	s.table.OnRemoved(func(c Contact) { removed = c })

	c := Contact{Id: []byte("a")}
	_, err := s.table.Add(c)
	s.Require().NoError(err)
	s.Equal(c.Id, added.Id)

	s.table.Remove(c.Id)
	s.Equal(c.Id, removed.Id)
}

// The default arbiter keeps the incumbent, so a re-seen contact with
// different content is dropped, not treated as an update.
func (s *RoutingTableTestSuite) TestDefaultArbiterDropsDivergentReseen() {
	var updated bool
	s.table.OnUpdated(func(old, new Contact) { updated = true })

	c := Contact{Id: []byte("a"), VectorClock: 0}
	_, err := s.table.Add(c)
	s.Require().NoError(err)

	added, err := s.table.Add(Contact{Id: []byte("a"), VectorClock: 1})
	s.Require().NoError(err)
	s.False(added)
	s.False(updated)

	got, ok := s.table.TryGet([]byte("a"))
	s.Require().True(ok)
	s.Equal(0, got.VectorClock)
}

// With a replace-on-candidate arbiter, a re-seen contact with different
// content is an update that carries both the old and new value.
func TestCandidateArbiterEmitsUpdated(t *testing.T) {
	table, err := New(Config{
		LocalID: []byte{0x00, 0x00, 0x00, 0x00},
		Arbiter: func(incumbent, candidate Contact) Contact { return candidate },
	})
	require.NoError(t, err)

	var updatedOld, updatedNew Contact
	table.OnUpdated(func(old, new Contact) {
		updatedOld = old
		updatedNew = new
	})

	c := Contact{Id: []byte("a"), VectorClock: 0}
	_, err = table.Add(c)
	require.NoError(t, err)

	c2 := Contact{Id: []byte("a"), VectorClock: 1}
	added, err := table.Add(c2)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, c.Id, updatedOld.Id)
	assert.Equal(t, c2.VectorClock, updatedNew.VectorClock)
	assert.Equal(t, 1, table.Count())
}

func TestArbiterReplace(t *testing.T) {
	table, err := New(Config{
		LocalID:           []byte{0x00, 0x00, 0x00, 0x00},
		ContactsPerBucket: 2,
		ContactsToPing:    1,
		Arbiter:           func(incumbent, candidate Contact) Contact { return candidate },
	})
	require.NoError(t, err)

	_, err = table.Add(Contact{Id: []byte("AA"), Metadata: map[string]any{"payload": 1}})
	require.NoError(t, err)
	_, err = table.Add(Contact{Id: []byte("AA"), Metadata: map[string]any{"payload": 2}})
	require.NoError(t, err)

	got, ok := table.TryGet([]byte("AA"))
	require.True(t, ok)
	assert.Equal(t, 2, got.Metadata["payload"])
	assert.Equal(t, 1, table.Count())

	contacts := table.Iterate()
	assert.Equal(t, 2, contacts[len(contacts)-1].Metadata["payload"])
}

func TestArbiterKeepDefault(t *testing.T) {
	table, err := New(Config{
		LocalID:           []byte{0x00, 0x00, 0x00, 0x00},
		ContactsPerBucket: 2,
		ContactsToPing:    1,
	})
	require.NoError(t, err)

	var reviewed bool
	table.OnReviewRequested(func(ReviewEvent) { reviewed = true })

	_, err = table.Add(Contact{Id: []byte("AA"), Metadata: map[string]any{"payload": 1}})
	require.NoError(t, err)
	_, err = table.Add(Contact{Id: []byte("AA"), Metadata: map[string]any{"payload": 2}})
	require.NoError(t, err)

	got, ok := table.TryGet([]byte("AA"))
	require.True(t, ok)
	assert.Equal(t, 1, got.Metadata["payload"])
	assert.Equal(t, 1, table.Count())
	assert.False(t, reviewed)
}

func TestClosestN(t *testing.T) {
	table, err := New(Config{LocalID: []byte{0x00, 0x00}})
	require.NoError(t, err)

	for i := 0; i < 0x12; i++ {
		_, err := table.Add(Contact{Id: []byte{byte(i)}})
		require.NoError(t, err)
	}

	closest := table.ClosestN([]byte{0x15}, 3)
	assert.Len(t, closest, 3)
	assert.Equal(t, []byte{0x11}, closest[0].Id)
	assert.Equal(t, []byte{0x10}, closest[1].Id)
	assert.Equal(t, []byte{0x05}, closest[2].Id)
}

func TestDistanceOverride(t *testing.T) {
	table, err := New(Config{
		DistanceFn: func(a, b []byte) *big.Int {
			return big.NewInt(int64(len(a) + len(b)))
		},
	})
	require.NoError(t, err)

	fid := []byte("first_id")
	sid := []byte("second_id")
	assert.Equal(t, big.NewInt(int64(len(fid)+len(sid))), table.Distance(fid, sid))
}

// Invariant properties: no duplicate identifiers, every leaf respects its
// bucket capacity, and count/iterate agree.
func TestInvariantsOverRandomOperations(t *testing.T) {
	table, err := New(Config{
		LocalID:           []byte{0x00, 0x00, 0x00, 0x00},
		ContactsPerBucket: 4,
	})
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		id := []byte{byte(i % 64), byte(i / 64)}
		_, err := table.Add(Contact{Id: id})
		require.NoError(t, err)
	}

	contacts := table.Iterate()
	assert.Equal(t, table.Count(), len(contacts))

	ids := map[string]bool{}
	for _, c := range contacts {
		key := string(c.Id)
		assert.False(t, ids[key], "duplicate identifier in table")
		ids[key] = true
	}

	var walk func(n *node)
	walk = func(n *node) {
		if n.isLeaf() {
			assert.LessOrEqual(t, len(n.contacts), table.contactsPerBucket)
			return
		}

		walk(n.left)
		walk(n.right)
	}
	walk(table.root)
}

// Round trip: add then remove every identifier leaves the table equal to
// a freshly-cleared one.
func TestAddRemoveRoundTrip(t *testing.T) {
	table, err := New(Config{LocalID: []byte{0x00, 0x00, 0x00, 0x00}})
	require.NoError(t, err)

	var ids [][]byte
	for i := 0; i < 50; i++ {
		id := []byte{byte(i), byte(i * 7)}
		ids = append(ids, id)
		_, err := table.Add(Contact{Id: id})
		require.NoError(t, err)
	}

	for _, id := range ids {
		require.True(t, table.Remove(id))
	}

	assert.Equal(t, 0, table.Count())
	assert.Empty(t, table.Iterate())
}

// Concurrent add/remove/closest never expose a torn state.
func TestConcurrentAccess(t *testing.T) {
	table, err := New(Config{LocalID: []byte{0x00, 0x00, 0x00, 0x00}})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := []byte{byte(g), byte(i)}
				_, _ = table.Add(Contact{Id: id})
				_ = table.Closest(id)
				if i%3 == 0 {
					table.Remove(id)
				}
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, table.Count(), len(table.Iterate()))
}

// An observer that removed a contact never sees it reappear via TryGet.
func TestGetAfterRemoveIsAbsent(t *testing.T) {
	table, err := New(Config{LocalID: []byte{0x00, 0x00}})
	require.NoError(t, err)

	id := []byte{0x01, 0x02}
	_, err = table.Add(Contact{Id: id})
	require.NoError(t, err)

	_, ok := table.TryGet(id)
	require.True(t, ok)

	table.Remove(id)

	_, ok = table.TryGet(id)
	assert.False(t, ok)
}

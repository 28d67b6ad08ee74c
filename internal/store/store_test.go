package store

import (
	"reflect"
	"sort"
	"sync"
	"testing"

	"github.com/glabrego/lemmy-cli/internal/api"
)

func entry(id int64) PostEntry {
	return PostEntry{View: api.PostView{Post: api.Post{ID: id}}}
}

func TestPostStore_AdoptAndRelease(t *testing.T) {
	s := NewPostStore()
	if !s.Adopt("a", entry(1)) {
		t.Fatal("expected first adopt to insert")
	}
	if s.Adopt("b", entry(1)) {
		t.Fatal("expected second adopt to reuse the cached post")
	}
	s.Adopt("b", entry(1))

	got, ok := s.Get(1)
	if !ok || !reflect.DeepEqual(got.UsedBy, []string{"a", "b"}) {
		t.Fatalf("unexpected users: %+v", got.UsedBy)
	}

	if s.Release(1, "a") {
		t.Fatal("post still used by b must stay cached")
	}
	if !s.Release(1, "b") {
		t.Fatal("expected eviction once no feed uses the post")
	}
	if s.Has(1) {
		t.Fatal("post must be gone")
	}
}

func TestPostStore_GetReturnsCopy(t *testing.T) {
	s := NewPostStore()
	s.Adopt("a", entry(1))
	got, _ := s.Get(1)
	got.UsedBy[0] = "mutated"
	again, _ := s.Get(1)
	if again.UsedBy[0] != "a" {
		t.Fatalf("Get must not expose internal slices, got %v", again.UsedBy)
	}
}

func TestPostStore_UpdateView(t *testing.T) {
	s := NewPostStore()
	if s.UpdateView(5, func(*api.PostView) {}) {
		t.Fatal("update of missing post must report false")
	}
	s.Adopt("a", entry(5))
	s.UpdateView(5, func(v *api.PostView) { v.Saved = true })
	got, _ := s.Get(5)
	if !got.View.Saved {
		t.Fatal("expected saved flag to be updated")
	}
}

func TestFeedStore_AppendKeepsFirstSeenOrder(t *testing.T) {
	s := NewFeedStore()
	added := s.Append("f", []int64{3, 1, 3, 2}, 2)
	if !reflect.DeepEqual(added, []int64{3, 1, 2}) {
		t.Fatalf("unexpected added ids: %v", added)
	}
	added = s.Append("f", []int64{2, 4}, 3)
	if !reflect.DeepEqual(added, []int64{4}) {
		t.Fatalf("unexpected added ids: %v", added)
	}
	f, ok := s.Get("f")
	if !ok || !reflect.DeepEqual(f.PostIDs, []int64{3, 1, 2, 4}) || f.NextPage != 3 {
		t.Fatalf("unexpected feed: %+v", f)
	}

	old := s.Reset("f")
	if !reflect.DeepEqual(old, []int64{3, 1, 2, 4}) {
		t.Fatalf("unexpected reset result: %v", old)
	}
	f, _ = s.Get("f")
	if len(f.PostIDs) != 0 || f.NextPage != 1 {
		t.Fatalf("expected empty feed after reset: %+v", f)
	}
}

func TestFeedStore_GetMissing(t *testing.T) {
	s := NewFeedStore()
	f, ok := s.Get("nope")
	if ok || f.NextPage != 1 {
		t.Fatalf("unexpected missing feed: %+v ok=%v", f, ok)
	}
	if ids := s.Remove("nope"); ids != nil {
		t.Fatalf("expected nil ids, got %v", ids)
	}
}

func TestFeedStore_IDs(t *testing.T) {
	s := NewFeedStore()
	s.Append("b", []int64{1}, 2)
	s.Append("a", []int64{1}, 2)
	ids := s.IDs()
	sort.Strings(ids)
	if !reflect.DeepEqual(ids, []string{"a", "b"}) {
		t.Fatalf("unexpected feed ids: %v", ids)
	}
}

func TestCommentStore_ForPostAndUpdate(t *testing.T) {
	s := NewCommentStore()
	s.Upsert(
		api.CommentView{Comment: api.Comment{ID: 1, PostID: 10}},
		api.CommentView{Comment: api.Comment{ID: 2, PostID: 11}},
	)
	if got := s.ForPost(10); len(got) != 1 || got[0].Comment.ID != 1 {
		t.Fatalf("unexpected comments for post: %+v", got)
	}
	s.Update(2, func(v *api.CommentView) { v.Comment.Content = "edited" })
	got, _ := s.Get(2)
	if got.Comment.Content != "edited" {
		t.Fatalf("expected edited content, got %q", got.Comment.Content)
	}
}

func TestCommentStore_UpsertKeepsCachedVote(t *testing.T) {
	s := NewCommentStore()
	s.Upsert(api.CommentView{Comment: api.Comment{ID: 1, Content: "old"}, Counts: api.Counts{Score: 5, Upvotes: 5}})
	s.Update(1, func(v *api.CommentView) {
		v.Counts = api.Counts{Score: 6, Upvotes: 6}
		v.MyVote = 1
	})

	got := s.Upsert(
		api.CommentView{Comment: api.Comment{ID: 1, Content: "new"}, Counts: api.Counts{Score: 5, Upvotes: 5}},
		api.CommentView{Comment: api.Comment{ID: 2}, Counts: api.Counts{Score: 3, Upvotes: 3}, MyVote: -1},
	)
	if got[0].Counts.Score != 6 || got[0].MyVote != 1 || got[0].Comment.Content != "new" {
		t.Fatalf("expected refreshed content with cached vote, got %+v", got[0])
	}
	if got[1].Counts.Score != 3 || got[1].MyVote != -1 {
		t.Fatalf("new comment must be stored as fetched, got %+v", got[1])
	}
	if v, _ := s.Get(1); v.Counts.Score != 6 || v.MyVote != 1 {
		t.Fatalf("cached vote overwritten: %+v", v)
	}
}

func TestSiteStore_DetectsProtocol(t *testing.T) {
	s := NewSiteStore()
	s.Set(&api.GetSiteResponse{Version: "0.19.2"})
	if s.Protocol() != api.ProtocolV019 {
		t.Fatalf("expected v0.19, got %v", s.Protocol())
	}
	s.Clear()
	if _, ok := s.Get(); ok {
		t.Fatal("expected cleared site")
	}
}

func TestPostStore_ConcurrentAdopt(t *testing.T) {
	s := NewPostStore()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Adopt("feed", entry(int64(i%4)))
		}(i)
	}
	wg.Wait()
	if s.Len() != 4 {
		t.Fatalf("expected 4 posts, got %d", s.Len())
	}
}

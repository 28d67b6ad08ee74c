package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glabrego/lemmy-cli/internal/comments"
	"github.com/glabrego/lemmy-cli/internal/gateway"
	"github.com/glabrego/lemmy-cli/internal/vote"
)

type fakeGateway struct {
	postsOpts    gateway.PostsOptions
	postsFeedID  string
	postsAdded   []int64
	postsErr     error
	voteErr      error
	startErr     error
	voteMetrics  vote.Metrics
	started      []int
	sent         int
	lastVoteKind Kind
	saveOK       bool
	commentRoots []*comments.Node
	commentsOK   bool
	markedRead   []int64
	released     []string
	lastDeadline time.Time
}

func (f *fakeGateway) GetPosts(ctx context.Context, feedID string, opts gateway.PostsOptions, addToFeed bool) (*gateway.PostsPage, error) {
	f.postsFeedID = feedID
	f.postsOpts = opts
	if f.postsErr != nil {
		return nil, f.postsErr
	}
	return &gateway.PostsPage{Added: f.postsAdded, NextPage: opts.Page + 1}, nil
}

func (f *fakeGateway) GetComments(ctx context.Context, postID, parentID int64, addToPost bool) ([]*comments.Node, bool) {
	return f.commentRoots, f.commentsOK
}

func (f *fakeGateway) StartLikePost(postID int64, requested int) (vote.Metrics, gateway.VoteSend, error) {
	f.lastVoteKind = KindPost
	return f.startVote(requested)
}

func (f *fakeGateway) StartLikeComment(commentID int64, requested int) (vote.Metrics, gateway.VoteSend, error) {
	f.lastVoteKind = KindComment
	return f.startVote(requested)
}

func (f *fakeGateway) startVote(requested int) (vote.Metrics, gateway.VoteSend, error) {
	if f.startErr != nil {
		return vote.Metrics{}, nil, f.startErr
	}
	f.started = append(f.started, requested)
	return f.voteMetrics, func(ctx context.Context) (vote.Metrics, error) {
		f.sent++
		if dl, ok := ctx.Deadline(); ok {
			f.lastDeadline = dl
		}
		return f.voteMetrics, f.voteErr
	}, nil
}

func (f *fakeGateway) SavePost(ctx context.Context, postID int64, save bool) bool       { return f.saveOK }
func (f *fakeGateway) SaveComment(ctx context.Context, commentID int64, save bool) bool { return f.saveOK }

func (f *fakeGateway) MarkPostRead(ctx context.Context, postID int64, read bool) bool {
	f.markedRead = append(f.markedRead, postID)
	return true
}

func (f *fakeGateway) ReleaseFeed(feedID string) int {
	f.released = append(f.released, feedID)
	return 0
}

func TestFeedFetch_PassesPageAndRefresh(t *testing.T) {
	gw := &fakeGateway{postsAdded: []int64{4, 5}}
	fetch := FeedFetch(gw, "home", gateway.PostsOptions{Sort: "Hot"})

	ids, err := fetch(context.Background(), 3, false)
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if len(ids) != 2 || gw.postsFeedID != "home" {
		t.Fatalf("unexpected result: ids=%v feed=%s", ids, gw.postsFeedID)
	}
	if gw.postsOpts.Page != 3 || gw.postsOpts.Refresh || gw.postsOpts.Sort != "Hot" {
		t.Fatalf("unexpected options: %+v", gw.postsOpts)
	}

	gw.postsErr = errors.New("down")
	if _, err := fetch(context.Background(), 1, true); err == nil {
		t.Fatal("expected error")
	}
	if !gw.postsOpts.Refresh {
		t.Fatal("expected refresh flag")
	}
}

func TestStartVote_AppliesBeforeCommandRuns(t *testing.T) {
	gw := &fakeGateway{voteMetrics: vote.Metrics{Score: 2, Upvotes: 2, MyVote: 1}}
	cmd := StartVote(gw, KindPost, 7, 1)
	if len(gw.started) != 1 || gw.started[0] != 1 || gw.sent != 0 {
		t.Fatalf("expected vote applied and not yet sent: started=%v sent=%d", gw.started, gw.sent)
	}

	msg := cmd()
	ok, isOK := msg.(VoteSuccessMsg)
	if !isOK || ok.ID != 7 || ok.Metrics.MyVote != 1 || gw.sent != 1 {
		t.Fatalf("unexpected message: %#v", msg)
	}
	if gw.lastDeadline.IsZero() {
		t.Fatal("expected deadline on vote context")
	}

	gw.voteErr = errors.New("rejected")
	msg = StartVote(gw, KindComment, 8, -1)()
	if _, isErr := msg.(VoteErrorMsg); !isErr || gw.lastVoteKind != KindComment {
		t.Fatalf("unexpected message: %#v", msg)
	}
}

func TestStartVote_StartFailureSendsNothing(t *testing.T) {
	gw := &fakeGateway{startErr: errors.New("not cached")}
	msg := StartVote(gw, KindPost, 7, 1)()
	if e, isErr := msg.(VoteErrorMsg); !isErr || e.ID != 7 {
		t.Fatalf("unexpected message: %#v", msg)
	}
	if gw.sent != 0 {
		t.Fatalf("nothing may be sent, sent=%d", gw.sent)
	}
}

func TestSaveCmd(t *testing.T) {
	gw := &fakeGateway{saveOK: true}
	msg := SaveCmd(gw, KindPost, 3, true)().(SaveResultMsg)
	if !msg.OK || !msg.Saved || msg.ID != 3 {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestLoadCommentsCmd_MarksRead(t *testing.T) {
	gw := &fakeGateway{commentsOK: true, commentRoots: []*comments.Node{{}, {}}}
	msg := LoadCommentsCmd(gw, 11)().(CommentsLoadedMsg)
	if !msg.OK || msg.Count != 2 {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if len(gw.markedRead) != 1 || gw.markedRead[0] != 11 {
		t.Fatalf("expected post to be marked read: %v", gw.markedRead)
	}

	gw = &fakeGateway{}
	if msg := LoadCommentsCmd(gw, 11)().(CommentsLoadedMsg); msg.OK || len(gw.markedRead) != 0 {
		t.Fatal("failed load must not mark read")
	}
}

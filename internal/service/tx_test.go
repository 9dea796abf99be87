package service

import "context"

type testTxRepos struct {
	tickets TicketRepositoryInterface
	chat    ChatRepositoryInterface
}

func (t *testTxRepos) Tickets() TicketRepositoryInterface {
	return t.tickets
}

func (t *testTxRepos) Chat() ChatRepositoryInterface {
	return t.chat
}

// testTxRunner runs fn directly. When failCommit is set the commit step fails
// after fn succeeds, as a dropped connection would.
type testTxRunner struct {
	repos      TxRepositories
	called     int
	failCommit error
}

func (t *testTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	t.called++
	if err := fn(t.repos); err != nil {
		return err
	}
	return t.failCommit
}

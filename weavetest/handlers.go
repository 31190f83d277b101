package weavetest

import "github.com/iov-one/barter"

// Handler is a mock implementation of the barter.Handler interface.
//
// Each method call is counted. If Store is set, the handler writes
// StoreKey=StoreValue on every call before returning.
type Handler struct {
	checkCall   int
	CheckResult barter.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult barter.DeliverResult
	DeliverErr    error

	// StoreKey and StoreValue are written to the store on each call when
	// StoreKey is not empty.
	StoreKey   []byte
	StoreValue []byte

	// Panic if set is raised by any method call.
	Panic interface{}
}

var _ barter.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	h.checkCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	h.deliverCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) write(db barter.KVStore) error {
	if len(h.StoreKey) != 0 {
		if err := db.Set(h.StoreKey, h.StoreValue); err != nil {
			return err
		}
	}
	if h.Panic != nil {
		panic(h.Panic)
	}
	return nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

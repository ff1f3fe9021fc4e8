package rx

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/7vars/combine"
)

func TestMap(t *testing.T) {
	p := newProbe[string, Never](Unlimited, None)
	Map(Sequence([]int{1, 2, 3}), strconv.Itoa).Subscribe(p)

	assert.Equal(t, []string{"1", "2", "3"}, p.Values())
	assert.Len(t, p.Completions(), 1)
}

func TestMapKeepsDemand(t *testing.T) {
	p := newProbe[int, Never](Max(2), None)
	Map(Sequence([]int{1, 2, 3}), func(v int) int { return v * 10 }).Subscribe(p)
	assert.Equal(t, []int{10, 20}, p.Values())
	assert.Empty(t, p.Completions())
}

func TestFilter(t *testing.T) {
	p := newProbe[int, Never](Unlimited, None)
	Filter(Range(1, 10), func(v int) bool { return v%3 == 0 }).Subscribe(p)
	assert.Equal(t, []int{3, 6, 9}, p.Values())
	assert.Len(t, p.Completions(), 1)
}

func TestFilterRequestsReplacements(t *testing.T) {
	p := newProbe[int, Never](Max(2), None)
	Filter(Range(1, 10), func(v int) bool { return v%2 == 0 }).Subscribe(p)
	assert.Equal(t, []int{2, 4}, p.Values())
}

func TestDropFirst(t *testing.T) {
	p := newProbe[int, Never](Unlimited, None)
	DropFirst(Range(1, 5), 2).Subscribe(p)
	assert.Equal(t, []int{3, 4, 5}, p.Values())
}

func TestPrefix(t *testing.T) {
	p := newProbe[int, Never](Unlimited, None)
	Prefix(Range(1, 100), 3).Subscribe(p)
	assert.Equal(t, []int{1, 2, 3}, p.Values())
	require.Len(t, p.Completions(), 1)
	assert.True(t, p.Completions()[0].IsFinished())

	none := newProbe[int, Never](Unlimited, None)
	Prefix(Range(1, 3), 0).Subscribe(none)
	assert.Empty(t, none.Values())
	assert.Len(t, none.Completions(), 1)
}

func TestPrefixCancelsSubject(t *testing.T) {
	s := NewPassthroughSubject[int, Never]()
	p := newProbe[int, Never](Unlimited, None)
	Prefix[int, Never](s, 1).Subscribe(p)

	s.Send(1)
	s.Send(2)
	assert.Equal(t, []int{1}, p.Values())
	assert.Equal(t, 0, s.SubscriberCount())
}

func TestScan(t *testing.T) {
	p := newProbe[int, Never](Unlimited, None)
	Scan(Range(1, 4), 0, func(acc, v int) int { return acc + v }).Subscribe(p)
	assert.Equal(t, []int{1, 3, 6, 10}, p.Values())
}

func TestReduceAndCollect(t *testing.T) {
	sum := newProbe[int, Never](Unlimited, None)
	Reduce(Range(1, 4), 0, func(acc, v int) int { return acc + v }).Subscribe(sum)
	assert.Equal(t, []int{10}, sum.Values())
	assert.Len(t, sum.Completions(), 1)

	all := newProbe[[]string, Never](Unlimited, None)
	Collect(Sequence([]string{"a", "b"})).Subscribe(all)
	assert.Equal(t, [][]string{{"a", "b"}}, all.Values())
}

func TestReduceWaitsForDemand(t *testing.T) {
	p := newProbe[int, Never](None, None)
	Count(Range(1, 3)).Subscribe(p)
	assert.Empty(t, p.Values())

	p.Request(Max(1))
	assert.Equal(t, []int{3}, p.Values())
	assert.Len(t, p.Completions(), 1)
}

func TestCount(t *testing.T) {
	s := NewPassthroughSubject[string, error]()
	p := newProbe[int, error](Unlimited, None)
	Count[string, error](s).Subscribe(p)

	s.Send("a")
	s.Send("b")
	assert.Empty(t, p.Values())

	s.SendCompletion(Finished[error]())
	assert.Equal(t, []int{2}, p.Values())
	assert.Len(t, p.Completions(), 1)
}

func TestCountFailure(t *testing.T) {
	p := newProbe[int, error](Unlimited, None)
	Count(NewRecord([]int{1, 2}, Failure(errBoom))).Subscribe(p)

	assert.Empty(t, p.Values())
	require.Len(t, p.Completions(), 1)
	assert.ErrorIs(t, p.Completions()[0].Err(), errBoom)
}

func TestAllSatisfy(t *testing.T) {
	p := newProbe[bool, Never](Unlimited, None)
	AllSatisfy(Sequence([]int{2, 4, 6}), func(v int) bool { return v%2 == 0 }).Subscribe(p)
	assert.Equal(t, []bool{true}, p.Values())

	empty := newProbe[bool, Never](Unlimited, None)
	AllSatisfy(Sequence[int](nil), func(int) bool { return false }).Subscribe(empty)
	assert.Equal(t, []bool{true}, empty.Values())
}

func TestAllSatisfyStopsEarly(t *testing.T) {
	var checked []int
	p := newProbe[bool, Never](Unlimited, None)
	AllSatisfy(Range(1, 100), func(v int) bool {
		checked = append(checked, v)
		return v < 3
	}).Subscribe(p)

	assert.Equal(t, []bool{false}, p.Values())
	assert.Len(t, p.Completions(), 1)
	assert.Equal(t, []int{1, 2, 3}, checked)
}

func TestTryMap(t *testing.T) {
	p := newProbe[int, error](Unlimited, None)
	TryMap(Sequence([]string{"1", "2", "x", "4"}), strconv.Atoi).Subscribe(p)

	assert.Equal(t, []int{1, 2}, p.Values())
	require.Len(t, p.Completions(), 1)
	var numErr *strconv.NumError
	assert.ErrorAs(t, p.Completions()[0].Err(), &numErr)
}

func TestTryMapPanic(t *testing.T) {
	p := newProbe[int, error](Unlimited, None)
	TryMap(Just(0), func(v int) (int, error) {
		return 10 / v, nil
	}).Subscribe(p)

	require.Len(t, p.Completions(), 1)
	var panicErr combine.PanicError
	assert.ErrorAs(t, p.Completions()[0].Err(), &panicErr)
}

func TestMapError(t *testing.T) {
	wrapped := errors.New("wrapped")
	p := newProbe[int, error](Unlimited, None)
	MapError(Fail[int](errBoom), func(err error) error {
		return fmt.Errorf("%w: %w", wrapped, err)
	}).Subscribe(p)

	require.Len(t, p.Completions(), 1)
	assert.ErrorIs(t, p.Completions()[0].Err(), wrapped)
	assert.ErrorIs(t, p.Completions()[0].Err(), errBoom)
}

func TestAsError(t *testing.T) {
	p := newProbe[int, error](Unlimited, None)
	AsError(Just(1)).Subscribe(p)
	assert.Equal(t, []int{1}, p.Values())
	require.Len(t, p.Completions(), 1)
	assert.True(t, p.Completions()[0].IsFinished())
}

func TestCatchReplacesFailure(t *testing.T) {
	var caught error
	p := newProbe[int, Never](Unlimited, None)
	Catch(NewRecord([]int{1, 2}, Failure(errBoom)), func(err error) Publisher[int, Never] {
		caught = err
		return Sequence([]int{7, 8})
	}).Subscribe(p)

	assert.Equal(t, []int{1, 2, 7, 8}, p.Values())
	require.Len(t, p.Completions(), 1)
	assert.True(t, p.Completions()[0].IsFinished())
	assert.ErrorIs(t, caught, errBoom)
}

func TestCatchCarriesDemand(t *testing.T) {
	p := newProbe[int, Never](Max(3), None)
	Catch(NewRecord([]int{1}, Failure(errBoom)), func(error) Publisher[int, Never] {
		return Range(10, 20)
	}).Subscribe(p)

	assert.Equal(t, []int{1, 10, 11}, p.Values())
	assert.Empty(t, p.Completions())
}

func TestCatchPassesFinished(t *testing.T) {
	called := false
	p := newProbe[int, Never](Unlimited, None)
	Catch(SequenceOf[int, error]([]int{1}), func(error) Publisher[int, Never] {
		called = true
		return EmptyNever[int]()
	}).Subscribe(p)

	assert.False(t, called)
	assert.Equal(t, []int{1}, p.Values())
	assert.Len(t, p.Completions(), 1)
}

func TestReplaceError(t *testing.T) {
	p := newProbe[string, Never](Unlimited, None)
	ReplaceError(TryMap(Sequence([]string{"a"}), func(string) (string, error) {
		return "", errBoom
	}), "fallback").Subscribe(p)

	assert.Equal(t, []string{"fallback"}, p.Values())
	assert.Len(t, p.Completions(), 1)
}

func TestEraseToAnyPublisher(t *testing.T) {
	pub := EraseToAnyPublisher(Map(Just(2), func(v int) int { return v * v }))
	p := newProbe[int, Never](Unlimited, None)
	pub.Subscribe(p)
	assert.Equal(t, []int{4}, p.Values())

	again := newProbe[int, Never](Unlimited, None)
	EraseToAnyPublisher[int, Never](pub).Subscribe(again)
	assert.Equal(t, []int{4}, again.Values())
}

package reactor

import (
	"container/heap"
	"time"

	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
)

// Task 定时任务
type Task struct {
	r        *Reactor
	deadline time.Time
	seq      uint64
	handler  pkgif.Handler
	index    int
	canceled bool
}

var _ pkgif.Task = (*Task)(nil)

// Cancel 取消任务；已触发或已取消时为空操作
func (t *Task) Cancel() {
	r := t.r
	r.mu.Lock()
	if t.canceled {
		r.mu.Unlock()
		return
	}
	t.canceled = true
	queued := t.index >= 0
	if queued {
		heap.Remove(&r.timers, t.index)
	}
	r.mu.Unlock()
	if queued {
		r.wakeup()
	}
}

// Deadline 返回触发时间
func (t *Task) Deadline() time.Time {
	return t.deadline
}

// taskHeap 按 deadline 排序的最小堆，deadline 相同按调度顺序
type taskHeap []*Task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*Task)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

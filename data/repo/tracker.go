package repo

import "sync"

// tracker 变更追踪快照表。
//
// 记录每个实体最近一次读/写时的标量属性快照，供变更探测器比较；
// NoTracking 查询不登记快照。快照表是仓储实例内部状态，
// 变更探测本身从不修改它（观察者语义）。
type tracker struct {
	mu        sync.RWMutex
	snapshots map[int64]map[string]any
}

func newTracker() *tracker {
	return &tracker{snapshots: make(map[int64]map[string]any)}
}

// capture 登记（或覆盖）实体快照；props 被复制，调用方可继续改动原 map。
func (t *tracker) capture(id int64, props map[string]any) {
	if id == 0 || props == nil {
		return
	}
	snap := make(map[string]any, len(props))
	for k, v := range props {
		snap[k] = v
	}
	t.mu.Lock()
	t.snapshots[id] = snap
	t.mu.Unlock()
}

// snapshot 返回快照副本，不存在时返回 nil。
func (t *tracker) snapshot(id int64) map[string]any {
	t.mu.RLock()
	snap, ok := t.snapshots[id]
	t.mu.RUnlock()
	if !ok {
		return nil
	}
	out := make(map[string]any, len(snap))
	for k, v := range snap {
		out[k] = v
	}
	return out
}

// discard 丢弃单个实体的快照（删除实体后调用）。
func (t *tracker) discard(id int64) {
	t.mu.Lock()
	delete(t.snapshots, id)
	t.mu.Unlock()
}

package service

import "sync"

// consultationLocks 按咨询 ID 串行化状态变更。
// 数据库侧另有 version 乐观锁兜底，锁只负责减少无谓的版本冲突。
type consultationLocks struct {
	mu    sync.Mutex
	locks map[uint]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newConsultationLocks() *consultationLocks {
	return &consultationLocks{locks: make(map[uint]*lockEntry)}
}

// Lock 获取指定咨询的互斥锁，返回解锁函数
func (l *consultationLocks) Lock(id uint) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &lockEntry{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs <= 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

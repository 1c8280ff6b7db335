// Package lifecycle 视图资源的创建与销毁
//
// Manager 持有一个视图创建的全部时间线、映射器和循环效果。每次激活前先销毁上一次
// 激活创建的所有资源，然后在新的 Scope 中执行 Setup。资源通过 Scope 登记销毁函数，
// 销毁时按创建的逆序执行，每次激活只执行一次。
package lifecycle

import (
	"errors"
	"fmt"
	"log"
	"reflect"
)

// ErrMissingPrerequisite 激活所需的元素尚不存在
var ErrMissingPrerequisite = errors.New("missing prerequisite")

// Disposable 可销毁的资源（时间线、映射器、循环效果等）
type Disposable interface {
	Kill()
}

// Setup 创建视图资源；返回错误时已登记的资源会被立即销毁
type Setup func(s *Scope) error

// Scope 一次激活的资源登记表
type Scope struct {
	disposers []func()
	disposed  bool
}

// Defer 登记销毁函数
func (s *Scope) Defer(fn func()) {
	if s.disposed {
		// 已经销毁的作用域不再接受资源，立即释放
		safeDispose(fn)
		return
	}
	s.disposers = append(s.disposers, fn)
}

// Own 登记资源，销毁时调用其 Kill
func (s *Scope) Own(d Disposable) {
	s.Defer(d.Kill)
}

// Require 检查前置条件；不满足时返回 ErrMissingPrerequisite
//
//	if err := s.Require("#disc", ok); err != nil {
//		return err
//	}
func (s *Scope) Require(name string, ok bool) error {
	if ok {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingPrerequisite, name)
}

// Alive 作用域是否仍持有资源
// 在 tick 回调中检查，保证销毁后不再有回调生效
func (s *Scope) Alive() bool {
	return !s.disposed
}

// Len 已登记的销毁函数数量
func (s *Scope) Len() int {
	return len(s.disposers)
}

// dispose 逆序执行销毁函数，只执行一次
func (s *Scope) dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	for i := len(s.disposers) - 1; i >= 0; i-- {
		safeDispose(s.disposers[i])
	}
	s.disposers = nil
}

func safeDispose(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Lifecycle] Warning: disposer panicked: %v", r)
		}
	}()
	fn()
}

// Manager 视图生命周期管理器
type Manager struct {
	name  string
	setup Setup

	deps       []any
	hasDeps    bool
	scope      *Scope
	generation int
	lastAbort  string
}

// New 创建管理器
func New(name string, setup Setup) *Manager {
	return &Manager{name: name, setup: setup}
}

// Activate 销毁上一次激活的资源后重新执行 Setup
//
// 缺少前置条件时激活被中止：已创建的资源全部销毁，不返回错误，也不自动重试。
// 其他 Setup 错误在销毁后原样返回。
func (m *Manager) Activate(deps ...any) error {
	m.Teardown()

	m.deps = append([]any(nil), deps...)
	m.hasDeps = true
	m.generation++

	scope := &Scope{}
	if err := m.setup(scope); err != nil {
		scope.dispose()
		if errors.Is(err, ErrMissingPrerequisite) {
			if msg := err.Error(); msg != m.lastAbort {
				log.Printf("[Lifecycle] %s: activation aborted: %v", m.name, err)
				m.lastAbort = msg
			}
			return nil
		}
		log.Printf("[Lifecycle] %s: setup failed: %v", m.name, err)
		return fmt.Errorf("activate %s: %w", m.name, err)
	}

	m.scope = scope
	m.lastAbort = ""
	log.Printf("[Lifecycle] %s: activated (generation %d, %d resources)", m.name, m.generation, scope.Len())
	return nil
}

// Update 依赖变化时重新激活；依赖相同时什么也不做
// 依赖按 reflect.DeepEqual 比较
func (m *Manager) Update(deps ...any) error {
	if m.hasDeps && reflect.DeepEqual(m.deps, append([]any(nil), deps...)) {
		return nil
	}
	return m.Activate(deps...)
}

// Teardown 销毁当前激活的全部资源；未激活时是空操作
func (m *Manager) Teardown() {
	if m.scope == nil {
		return
	}
	scope := m.scope
	m.scope = nil
	scope.dispose()
	log.Printf("[Lifecycle] %s: torn down (generation %d)", m.name, m.generation)
}

// Active 当前是否持有一次成功的激活
func (m *Manager) Active() bool {
	return m.scope != nil
}

// Generation 激活次数（包括中止的激活）
func (m *Manager) Generation() int {
	return m.generation
}

// Scope 当前激活的作用域，未激活时为 nil
func (m *Manager) Scope() *Scope {
	return m.scope
}

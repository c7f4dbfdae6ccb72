package parser

import (
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/transform-imports/pkg/util"
)

// TestConcurrentMultiDialect parses every dialect from many goroutines at
// once and checks that each pool stays within its bound.
func TestConcurrentMultiDialect(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	manager := NewManager(logger, 0)
	defer manager.Close()

	sources := map[Dialect][]byte{
		DialectJavaScript: []byte("import {Button} from \"antd\";\nconst a = 1;\n"),
		DialectTypeScript: []byte("import type {Props} from \"antd\";\nconst x: number = 1;\n"),
		DialectTSX:        []byte("import {Button} from \"antd\";\nconst el = <Button />;\n"),
	}

	const goroutinesPerDialect = 20
	numGoroutines := len(sources) * goroutinesPerDialect

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	errChan := make(chan error, numGoroutines)

	for dialect, source := range sources {
		for i := 0; i < goroutinesPerDialect; i++ {
			go func() {
				defer wg.Done()

				module, err := manager.ParseModule(source, dialect)
				if err != nil {
					errChan <- err
					return
				}
				if len(module.Imports()) != 1 {
					errChan <- assert.AnError
				}
			}()
		}
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	assert.Empty(t, errs, "No errors should occur during concurrent parsing")

	stats := manager.Stats()
	maxParsers := len(sources) * util.GetOptimalPoolSize()
	assert.LessOrEqual(t, stats.ParsersCreated, maxParsers)
	assert.GreaterOrEqual(t, stats.ParsersCreated, len(sources), "Should create at least one parser per dialect")
	assert.Equal(t, numGoroutines, stats.ParsesCalled)
}

// TestConcurrentLazyInitialization releases all goroutines at once against
// a dialect whose pool does not exist yet.
func TestConcurrentLazyInitialization(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	manager := NewManager(logger, 4)
	defer manager.Close()

	const numGoroutines = 50
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	errChan := make(chan error, numGoroutines)

	startBarrier := make(chan struct{})
	source := []byte("function test() { return 42; }")

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			<-startBarrier

			tree, err := manager.Parse(source, DialectJavaScript)
			if err != nil {
				errChan <- err
				return
			}
			tree.Close()
		}()
	}

	close(startBarrier)
	wg.Wait()
	close(errChan)

	for err := range errChan {
		require.NoError(t, err)
	}

	stats := manager.Stats()
	assert.LessOrEqual(t, stats.ParsersCreated, 4)
	assert.GreaterOrEqual(t, stats.ParsersCreated, 1)
	assert.Equal(t, numGoroutines, stats.ParsesCalled)
}

func TestClose_ResetsPools(t *testing.T) {
	manager := NewManager(util.DiscardLogger(), 1)

	_, err := manager.ParseModule([]byte("const a = 1;"), DialectJavaScript)
	require.NoError(t, err)
	assert.Equal(t, 1, manager.Stats().ParsersCreated)

	require.NoError(t, manager.Close())
	assert.Equal(t, 0, manager.Stats().ParsersCreated)
}

func BenchmarkConcurrentParsing(b *testing.B) {
	manager := NewManager(util.DiscardLogger(), 0)
	defer manager.Close()

	source := []byte("import {Button, DatePicker as DP} from \"antd\";\nimport React from \"react\";\n")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := manager.ParseModule(source, DialectJavaScript); err != nil {
				b.Fatal(err)
			}
		}
	})
}

package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/finspect/invoice-pipeline/internal/entity"
	"github.com/finspect/invoice-pipeline/internal/erp"
)

// BatchOptions carries shared inputs for a batch run.
type BatchOptions struct {
	// Workers bounds concurrent invoices; values below 1 mean 1.
	Workers int
	History []entity.InvoiceRecord
	ERP     erp.Adapter
}

// ProcessBatch runs every path through the pipeline with a bounded worker
// pool. Results keep the input order and the aggregate counts are exact
// regardless of scheduling. A batch with failures is still returned whole.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string, opts BatchOptions) BatchResult {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}

	batch := BatchResult{
		BatchID: uuid.New(),
		Total:   len(paths),
		Results: make([]Result, len(paths)),
	}
	p.logger.Info("pipeline.batch.start", "batch_id", batch.BatchID, "total", batch.Total, "workers", workers)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				batch.Results[i] = p.Process(ctx, paths[i], Options{
					OutputName: fmt.Sprintf("invoice_%d", i+1),
					History:    opts.History,
					ERP:        opts.ERP,
				})
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, r := range batch.Results {
		if r.Success {
			batch.Successful++
		} else {
			batch.Failed++
		}
	}
	p.logger.Info("pipeline.batch.done",
		"batch_id", batch.BatchID,
		"successful", batch.Successful,
		"failed", batch.Failed)
	return batch
}

package collect

import (
	"context"
	"fmt"

	"github.com/conduit-lang/aotcfg/internal/configfile"
)

// FileProducer submits every entry of a configuration file. A document
// with the wrong shape fails the producer; entries with invalid names go
// through the sink like any other submission.
func FileProducer(path string) Producer {
	return ProducerFunc(path, func(ctx context.Context, sink Sink) error {
		entries, err := configfile.Read(path)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}

			d, err := entry.Descriptor()
			if err != nil {
				if err := sink.Reject(entry.Label(), err); err != nil {
					return fmt.Errorf("entry %d: %w", entry.Index, err)
				}
				continue
			}
			sink.Add(d)
		}
		return nil
	})
}

// FileProducers wraps each path in a FileProducer
func FileProducers(paths ...string) []Producer {
	producers := make([]Producer, len(paths))
	for i, path := range paths {
		producers[i] = FileProducer(path)
	}
	return producers
}

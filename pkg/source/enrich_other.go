//go:build !linux && !darwin

package source

func platformEnricher() Enricher {
	return nil
}

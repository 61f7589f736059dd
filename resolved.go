package inject

import (
	"fmt"
)

// ResolvedProvider is the merged, ready-to-instantiate form of every
// declaration sharing a key. It is immutable once built.
type ResolvedProvider struct {
	Key *Key

	// Factories holds exactly one factory unless Multi is set, in which case
	// it holds one factory per contributing declaration in declaration order.
	Factories []*ResolvedFactory

	Multi bool
}

// Factory returns the first resolved factory.
func (rp *ResolvedProvider) Factory() *ResolvedFactory {
	if len(rp.Factories) == 0 {
		return nil
	}
	return rp.Factories[0]
}

// String implements fmt.Stringer.
func (rp *ResolvedProvider) String() string {
	if rp.Multi {
		return fmt.Sprintf("ResolvedProvider{%s, multi, factories: %d}", rp.Key.DisplayName(), len(rp.Factories))
	}
	return fmt.Sprintf("ResolvedProvider{%s}", rp.Key.DisplayName())
}

// resolveProvider builds the unmerged ResolvedProvider of one declaration.
func (r *Resolver) resolveProvider(p Provider) (*ResolvedProvider, error) {
	key, err := r.keys.Get(p.Provide)
	if err != nil {
		return nil, err
	}

	factory, err := r.resolveFactory(p)
	if err != nil {
		return nil, err
	}

	return &ResolvedProvider{
		Key:       key,
		Factories: []*ResolvedFactory{factory},
		Multi:     p.Multi,
	}, nil
}

// mergeProviders deduplicates providers by key, keeping the position of the
// first declaration for each key. Single providers are replaced by later
// declarations; multi providers accumulate factories in arrival order.
func mergeProviders(providers []*ResolvedProvider) ([]*ResolvedProvider, error) {
	order := make([]int, 0, len(providers))
	merged := make(map[int]*ResolvedProvider, len(providers))

	for _, provider := range providers {
		existing, ok := merged[provider.Key.ID]
		if !ok {
			if provider.Multi {
				provider = &ResolvedProvider{
					Key:       provider.Key,
					Factories: append([]*ResolvedFactory(nil), provider.Factories...),
					Multi:     true,
				}
			}
			merged[provider.Key.ID] = provider
			order = append(order, provider.Key.ID)
			continue
		}

		if existing.Multi != provider.Multi {
			return nil, &MixedMultiProviderError{Existing: existing, Incoming: provider}
		}

		if provider.Multi {
			existing.Factories = append(existing.Factories, provider.Factories...)
		} else {
			merged[provider.Key.ID] = provider
		}
	}

	result := make([]*ResolvedProvider, len(order))
	for i, id := range order {
		result[i] = merged[id]
	}
	return result, nil
}

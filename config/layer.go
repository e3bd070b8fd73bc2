package config

import "github.com/jjohnsen/azure-devops-migration-tools/document"

// Layer merges documents into a new one. Later layers win: objects are merged
// recursively, every other node (arrays included) replaces the earlier value.
// Key order follows the first layer that introduced each key. The inputs are
// not modified.
func Layer(layers ...*document.Object) *document.Object {
	merged := document.NewObject()

	for _, layer := range layers {
		if layer == nil {
			continue
		}

		overlay(merged, layer)
	}

	return merged
}

func overlay(dst, src *document.Object) {
	src.Each(func(key string, value document.Node) {
		existing, exists := dst.Get(key)

		dstObj, dstIsObject := existing.(*document.Object)
		srcObj, srcIsObject := value.(*document.Object)

		if exists && dstIsObject && srcIsObject {
			overlay(dstObj, srcObj)

			return
		}

		dst.Set(key, value.Clone())
	})
}

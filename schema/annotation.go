package schema

// Annotation is used to attach arbitrary metadata to entities and fields.
// Annotations are keyed by their Name; loaders merge repeated annotations
// with the same name when the first one implements Merger.
type Annotation interface {
	// Name defines the name of the annotation to be retrieved by dialects.
	Name() string
}

// Merger wraps the single Merge function allows custom annotation
// to provide an implementation for merging 2 annotations with the same name.
type Merger interface {
	Merge(Annotation) Annotation
}

// AddAnnotation stores an in the given map, merging it with an existing
// annotation of the same name when possible.
func AddAnnotation(annotations map[string]any, an Annotation) {
	curr, ok := annotations[an.Name()]
	if !ok {
		annotations[an.Name()] = an
		return
	}
	if m, ok := curr.(Merger); ok {
		annotations[an.Name()] = m.Merge(an)
	}
}

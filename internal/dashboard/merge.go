package dashboard

import "slices"

// MergeNames appends every name not already present in list as a selected
// FilterItem. The input list is not modified; existing entries keep their
// position and selection. The returned added slice holds only the new items in
// the order they were appended.
func MergeNames(list []FilterItem, names []string) (merged, added []FilterItem) {
	merged = slices.Clip(list)
	for _, name := range names {
		if indexOfName(merged, name) >= 0 {
			continue
		}
		item := FilterItem{Name: name, Selected: true}
		merged = append(merged, item)
		added = append(added, item)
	}
	return merged, added
}

// MergeTopics appends the topics of corpus whose (name, corpus) key is absent
func MergeTopics(list []TopicItem, corpus string, names []string) (merged, added []TopicItem) {
	merged = slices.Clip(list)
	for _, name := range names {
		if indexOfTopic(merged, corpus, name) >= 0 {
			continue
		}
		item := NewTopicItem(corpus, name)
		merged = append(merged, item)
		added = append(added, item)
	}
	return merged, added
}

// MergeQueryGroups appends the query groups of (corpus, topic) whose
// (name, corpus, topic) key is absent
func MergeQueryGroups(
	list []QueryGroupItem, corpus, topic string, names []string,
) (merged, added []QueryGroupItem) {
	merged = slices.Clip(list)
	for _, name := range names {
		if indexOfQueryGroup(merged, corpus, topic, name) >= 0 {
			continue
		}
		item := NewQueryGroupItem(corpus, topic, name)
		merged = append(merged, item)
		added = append(added, item)
	}
	return merged, added
}

// Lookups scan in insertion order and return the first match.

func indexOfName(list []FilterItem, name string) int {
	return slices.IndexFunc(list, func(it FilterItem) bool {
		return it.Name == name
	})
}

func indexOfTopic(list []TopicItem, corpus, name string) int {
	return slices.IndexFunc(list, func(it TopicItem) bool {
		return it.Name == name && it.Corpus == corpus
	})
}

func indexOfQueryGroup(list []QueryGroupItem, corpus, topic, name string) int {
	return slices.IndexFunc(list, func(it QueryGroupItem) bool {
		return it.Name == name && it.Corpus == corpus && it.Topic == topic
	})
}

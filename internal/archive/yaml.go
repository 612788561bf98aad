package archive

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAMLSink builds a YAML document tree of the walked graph. Shared objects are
// written once with an anchor and referenced through aliases afterwards.
type YAMLSink struct {
	root    *yaml.Node
	stack   []*yaml.Node
	anchors map[uint64]*yaml.Node
}

func NewYAMLSink() *YAMLSink {
	root := &yaml.Node{Kind: yaml.MappingNode}
	return &YAMLSink{
		root:    root,
		stack:   []*yaml.Node{root},
		anchors: make(map[uint64]*yaml.Node),
	}
}

// Root returns the document built so far.
func (s *YAMLSink) Root() *yaml.Node { return s.root }

// Encode writes the document to w.
func (s *YAMLSink) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.root); err != nil {
		return err
	}
	return enc.Close()
}

func (s *YAMLSink) top() *yaml.Node { return s.stack[len(s.stack)-1] }

func (s *YAMLSink) add(name string, n *yaml.Node) {
	top := s.top()
	if top.Kind == yaml.MappingNode {
		top.Content = append(top.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: name}, n)
		return
	}
	top.Content = append(top.Content, n)
}

func (s *YAMLSink) scalar(name, tag, value string) {
	s.add(name, &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value})
}

func (s *YAMLSink) OutBool(v NameValue[bool]) {
	s.scalar(v.Name, "!!bool", strconv.FormatBool(*v.Value))
}

func (s *YAMLSink) OutInt(v NameValue[int]) {
	s.scalar(v.Name, "!!int", strconv.Itoa(*v.Value))
}

func (s *YAMLSink) OutFloat64(v NameValue[float64]) {
	s.scalar(v.Name, "!!float", strconv.FormatFloat(*v.Value, 'g', -1, 64))
}

func (s *YAMLSink) OutFloat32(v NameValue[float32]) {
	s.scalar(v.Name, "!!float", strconv.FormatFloat(float64(*v.Value), 'g', -1, 32))
}

func (s *YAMLSink) OutChar(v NameValue[byte]) {
	s.scalar(v.Name, "!!int", strconv.Itoa(int(*v.Value)))
}

func (s *YAMLSink) OutUint(v NameValue[uint32]) {
	s.scalar(v.Name, "!!int", strconv.FormatUint(uint64(*v.Value), 10))
}

func (s *YAMLSink) OutString(v NameValue[string]) {
	s.scalar(v.Name, "!!str", *v.Value)
}

func (s *YAMLSink) OutUint64(v NameValue[uint64]) {
	s.scalar(v.Name, "!!int", strconv.FormatUint(*v.Value, 10))
}

func (s *YAMLSink) OutEnum(name string, e EnumMapper) {
	if label, ok := e.Names()[e.Value()]; ok {
		s.scalar(name, "!!str", label)
		return
	}
	s.scalar(name, "!!int", strconv.Itoa(e.Value()))
}

func (s *YAMLSink) OutArrayPre(name string, size int) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	s.add(name, seq)
	s.stack = append(s.stack, seq)
}

func (s *YAMLSink) OutArrayBetween(name string, size int) {}

func (s *YAMLSink) OutArrayEnd(name string, size int) {
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *YAMLSink) OutObject(v Value, alreadyInserted bool, id uint64) {
	s.object(v, alreadyInserted, id, false)
}

func (s *YAMLSink) OutRef(v Value, alreadyInserted bool, id uint64) {
	s.object(v, alreadyInserted, id, true)
}

func (s *YAMLSink) object(v Value, alreadyInserted bool, id uint64, ref bool) {
	if alreadyInserted {
		if target, ok := s.anchors[id]; ok {
			if target.Anchor == "" {
				target.Anchor = fmt.Sprintf("o%d", id)
			}
			s.add(v.Name, &yaml.Node{Kind: yaml.AliasNode, Alias: target, Value: target.Anchor})
			return
		}
		// Still being written further up the stack: a cycle.
		s.scalar(v.Name, "!!str", fmt.Sprintf("<cycle o%d>", id))
		return
	}

	m := &yaml.Node{Kind: yaml.MappingNode}
	s.add(v.Name, m)
	s.stack = append(s.stack, m)
	if ref {
		v.CallArchiveOutConstructor()
	}
	v.CallArchiveOut()
	s.stack = s.stack[:len(s.stack)-1]
	s.anchors[id] = m
}

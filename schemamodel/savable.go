// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package schemamodel

import (
	"github.com/sirupsen/logrus"
)

// A SaveFunc persists a model after a successful mutation.
type SaveFunc func(*SchemaModel)

// SavableSchemaModel wraps a SchemaModel so that every successful mutation
// is followed by exactly one call to its SaveFunc. Failed mutations are not
// saved. Queries are those of the embedded model.
type SavableSchemaModel struct {
	*SchemaModel
	save SaveFunc
	log  logrus.FieldLogger
}

// NewSavable returns a savable view of model. A nil log uses the standard logger.
func NewSavable(model *SchemaModel, save SaveFunc, log logrus.FieldLogger) *SavableSchemaModel {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SavableSchemaModel{SchemaModel: model, save: save, log: log}
}

func (s *SavableSchemaModel) saved(op, pointer string, err error) error {
	entry := s.log.WithFields(logrus.Fields{"op": op, "pointer": pointer})
	if err != nil {
		entry.WithError(err).Debug("schema model mutation rejected")
		return err
	}
	entry.Debug("schema model mutated")
	if s.save != nil {
		s.save(s.SchemaModel)
	}
	return nil
}

// AddNode calls SchemaModel.AddNode and saves the model if it succeeds.
func (s *SavableSchemaModel) AddNode(name string, node UiSchemaNode, target NodePosition) (UiSchemaNode, error) {
	n, err := s.SchemaModel.AddNode(name, node, target)
	return n, s.saved("addNode", target.ParentPointer, err)
}

// AddField calls SchemaModel.AddField and saves the model if it succeeds.
func (s *SavableSchemaModel) AddField(name string, t FieldType, target NodePosition) (*FieldNode, error) {
	n, err := s.SchemaModel.AddField(name, t, target)
	return n, s.saved("addField", target.ParentPointer, err)
}

// AddCombination calls SchemaModel.AddCombination and saves the model if it succeeds.
func (s *SavableSchemaModel) AddCombination(name string, k CombinationKind, target NodePosition) (*CombinationNode, error) {
	n, err := s.SchemaModel.AddCombination(name, k, target)
	return n, s.saved("addCombination", target.ParentPointer, err)
}

// AddReference calls SchemaModel.AddReference and saves the model if it succeeds.
func (s *SavableSchemaModel) AddReference(name, reference string, target NodePosition) (*ReferenceNode, error) {
	n, err := s.SchemaModel.AddReference(name, reference, target)
	return n, s.saved("addReference", target.ParentPointer, err)
}

// AddType calls SchemaModel.AddType and saves the model if it succeeds.
func (s *SavableSchemaModel) AddType(name string, node UiSchemaNode) (UiSchemaNode, error) {
	n, err := s.SchemaModel.AddType(name, node)
	return n, s.saved("addType", RootPointer, err)
}

// DeleteNode calls SchemaModel.DeleteNode and saves the model if it succeeds.
func (s *SavableSchemaModel) DeleteNode(pointer string) error {
	return s.saved("deleteNode", pointer, s.SchemaModel.DeleteNode(pointer))
}

// ConvertToDefinition calls SchemaModel.ConvertToDefinition and saves the model if it succeeds.
func (s *SavableSchemaModel) ConvertToDefinition(pointer string) (*ReferenceNode, error) {
	n, err := s.SchemaModel.ConvertToDefinition(pointer)
	return n, s.saved("convertToDefinition", pointer, err)
}

// MoveNode calls SchemaModel.MoveNode and saves the model if it succeeds.
func (s *SavableSchemaModel) MoveNode(pointer string, target NodePosition) (UiSchemaNode, error) {
	n, err := s.SchemaModel.MoveNode(pointer, target)
	return n, s.saved("moveNode", pointer, err)
}

// SetPropertyName calls SchemaModel.SetPropertyName and saves the model if it succeeds.
func (s *SavableSchemaModel) SetPropertyName(pointer, newName string, callback func(string)) (UiSchemaNode, error) {
	n, err := s.SchemaModel.SetPropertyName(pointer, newName, callback)
	return n, s.saved("setPropertyName", pointer, err)
}

// SetRequired calls SchemaModel.SetRequired and saves the model if it succeeds.
func (s *SavableSchemaModel) SetRequired(pointer string, required bool) error {
	return s.saved("setRequired", pointer, s.SchemaModel.SetRequired(pointer, required))
}

// SetTitle calls SchemaModel.SetTitle and saves the model if it succeeds.
func (s *SavableSchemaModel) SetTitle(pointer, title string) error {
	return s.saved("setTitle", pointer, s.SchemaModel.SetTitle(pointer, title))
}

// SetDescription calls SchemaModel.SetDescription and saves the model if it succeeds.
func (s *SavableSchemaModel) SetDescription(pointer, description string) error {
	return s.saved("setDescription", pointer, s.SchemaModel.SetDescription(pointer, description))
}

// SetRef calls SchemaModel.SetRef and saves the model if it succeeds.
func (s *SavableSchemaModel) SetRef(pointer, reference string) error {
	return s.saved("setRef", pointer, s.SchemaModel.SetRef(pointer, reference))
}

// SetCombinationType calls SchemaModel.SetCombinationType and saves the model if it succeeds.
func (s *SavableSchemaModel) SetCombinationType(pointer string, k CombinationKind) error {
	return s.saved("setCombinationType", pointer, s.SchemaModel.SetCombinationType(pointer, k))
}

// ToggleArrayField calls SchemaModel.ToggleArrayField and saves the model if it succeeds.
func (s *SavableSchemaModel) ToggleArrayField(pointer string) (UiSchemaNode, error) {
	n, err := s.SchemaModel.ToggleArrayField(pointer)
	return n, s.saved("toggleArrayField", pointer, err)
}

// AddCombinationItem calls SchemaModel.AddCombinationItem and saves the model if it succeeds.
func (s *SavableSchemaModel) AddCombinationItem(pointer string) (*FieldNode, error) {
	n, err := s.SchemaModel.AddCombinationItem(pointer)
	return n, s.saved("addCombinationItem", pointer, err)
}

// SetNillable calls SchemaModel.SetNillable and saves the model if it succeeds.
func (s *SavableSchemaModel) SetNillable(pointer string, nillable bool) error {
	return s.saved("setNillable", pointer, s.SchemaModel.SetNillable(pointer, nillable))
}

// SetType calls SchemaModel.SetType and saves the model if it succeeds.
func (s *SavableSchemaModel) SetType(pointer string, t FieldType) error {
	return s.saved("setType", pointer, s.SchemaModel.SetType(pointer, t))
}

// SetRestrictions calls SchemaModel.SetRestrictions and saves the model if it succeeds.
func (s *SavableSchemaModel) SetRestrictions(pointer string, restrictions map[string]any) error {
	return s.saved("setRestrictions", pointer, s.SchemaModel.SetRestrictions(pointer, restrictions))
}

// SetCustomProperties calls SchemaModel.SetCustomProperties and saves the model if it succeeds.
func (s *SavableSchemaModel) SetCustomProperties(pointer string, custom map[string]any) error {
	return s.saved("setCustomProperties", pointer, s.SchemaModel.SetCustomProperties(pointer, custom))
}

// SetEnum calls SchemaModel.SetEnum and saves the model if it succeeds.
func (s *SavableSchemaModel) SetEnum(pointer string, values []any) error {
	return s.saved("setEnum", pointer, s.SchemaModel.SetEnum(pointer, values))
}

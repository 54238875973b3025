package state

import (
	"fmt"

	"github.com/five82/studydesk/internal/model"
)

// AddSubject appends a subject and returns its id, or "" when name is blank.
func (s *Store) AddSubject(name, color, icon, targetClass string) string {
	return s.Dispatch(AddSubject{Name: name, Color: color, Icon: icon, TargetClass: targetClass}).ID
}

// AddTopic appends a topic to a subject and returns its id, or "" when the
// subject does not exist.
func (s *Store) AddTopic(subjectID, name, description string) string {
	return s.Dispatch(AddTopic{SubjectID: subjectID, Name: name, Description: description}).ID
}

// AddMaterial appends a material to a topic. Notes never carry a url.
func (s *Store) AddMaterial(topicID, title string, typ model.MaterialType, url string) (string, error) {
	out := s.Dispatch(AddMaterial{TopicID: topicID, Title: title, Type: typ, URL: url})
	return out.ID, out.Err
}

func (s *Store) UpdateSubject(id string, patch SubjectPatch) error {
	return s.Dispatch(UpdateSubject{SubjectID: id, Patch: patch}).Err
}

func (s *Store) UpdateTopic(id string, patch TopicPatch) {
	s.Dispatch(UpdateTopic{TopicID: id, Patch: patch})
}

func (s *Store) UpdateMaterial(id string, patch MaterialPatch) {
	s.Dispatch(UpdateMaterial{MaterialID: id, Patch: patch})
}

// DeleteMaterial removes a material from its topic.
func (s *Store) DeleteMaterial(topicID, materialID string) {
	s.Dispatch(DeleteMaterial{TopicID: topicID, MaterialID: materialID})
}

// DeleteTopic removes a topic and its materials.
func (s *Store) DeleteTopic(topicID string) {
	s.Dispatch(DeleteTopic{TopicID: topicID})
}

// DeleteSubject removes a subject with everything it contains.
func (s *Store) DeleteSubject(subjectID string) {
	s.Dispatch(DeleteSubject{SubjectID: subjectID})
}

func (s *Store) ToggleTopicCompletion(topicID string) {
	s.Dispatch(ToggleTopicCompletion{TopicID: topicID})
}

func (s *Store) TogglePinTopic(topicID string) {
	s.Dispatch(TogglePinTopic{TopicID: topicID})
}

func (s *Store) ToggleFavorite(materialID string) {
	s.Dispatch(ToggleFavorite{MaterialID: materialID})
}

func (s *Store) ToggleBookmark(materialID string, position int) {
	s.Dispatch(ToggleBookmark{MaterialID: materialID, Position: position})
}

// UpdateMaterialProgress records progress and, optionally, the reading
// position (seconds for videos, page for PDFs).
func (s *Store) UpdateMaterialProgress(materialID string, progress int, position ...int) {
	cmd := UpdateMaterialProgress{MaterialID: materialID, Progress: progress}
	if len(position) > 0 {
		p := position[0]
		cmd.Position = &p
	}
	s.Dispatch(cmd)
}

func (s *Store) TrackStudyTime(minutes int, typ model.MaterialType) {
	s.Dispatch(TrackStudyTime{Minutes: minutes, Type: typ})
}

func (s *Store) SaveMaterialNotes(materialID, notes string) {
	s.Dispatch(SaveMaterialNotes{MaterialID: materialID, Notes: notes})
}

// AddTag creates a tag and returns its id, or "" when name is blank.
func (s *Store) AddTag(name, color string) string {
	return s.Dispatch(AddTag{Name: name, Color: color}).ID
}

func (s *Store) ToggleTopicTag(topicID, tagID string) {
	s.Dispatch(ToggleTopicTag{TopicID: topicID, TagID: tagID})
}

func (s *Store) ToggleMaterialTag(materialID, tagID string) {
	s.Dispatch(ToggleMaterialTag{MaterialID: materialID, TagID: tagID})
}

func (s *Store) UpdateSettings(patch SettingsPatch) error {
	return s.Dispatch(UpdateSettings{Patch: patch}).Err
}

// ExportData renders the current document as a backup file.
func (s *Store) ExportData() ([]byte, error) {
	return EncodeExport(s.Snapshot())
}

// ImportData replaces the whole document with a backup. On any error the
// document is left untouched and the error wraps ErrInvalidImport.
func (s *Store) ImportData(data []byte) error {
	doc, err := DecodeImport(data)
	if err != nil {
		s.log.Warn("import rejected", "error", err)
		return err
	}
	return s.Dispatch(ReplaceDocument{State: doc}).Err
}

// AdminAddUser creates an approved account. Ids collide case-insensitively.
func (s *Store) AdminAddUser(u model.NewUser) error {
	return s.Dispatch(AddUser{User: u, Status: model.StatusApproved}).Err
}

// RegisterUser creates an account awaiting admin approval.
func (s *Store) RegisterUser(u model.NewUser) error {
	return s.Dispatch(AddUser{User: u, Status: model.StatusPending}).Err
}

// BulkAddUsers adds approved accounts, skipping invalid rows and duplicates.
func (s *Store) BulkAddUsers(users []model.NewUser) (added, skipped int) {
	out := s.Dispatch(BulkAddUsers{Users: users, Status: model.StatusApproved})
	s.log.Info("bulk user import", "added", out.Added, "skipped", out.Skipped)
	return out.Added, out.Skipped
}

func (s *Store) AdminDeleteUser(id string) {
	s.Dispatch(DeleteUser{UserID: id})
}

func (s *Store) UpdateUserStatus(id string, status model.UserStatus) error {
	return s.Dispatch(UpdateUserStatus{UserID: id, Status: status}).Err
}

func (s *Store) AdminAssignTeacher(id string, subjects, classes []string) error {
	return s.Dispatch(AssignTeacher{UserID: id, Subjects: subjects, Classes: classes}).Err
}

// AdminAddTransaction records a ledger entry and returns its id.
func (s *Store) AdminAddTransaction(t model.NewTransaction) (string, error) {
	out := s.Dispatch(AddTransaction{Transaction: t})
	return out.ID, out.Err
}

func (s *Store) AdminDeleteTransaction(id string) {
	s.Dispatch(DeleteTransaction{TransactionID: id})
}

func (s *Store) AdminSetTransactionStatus(id string, status model.PaymentStatus) error {
	return s.Dispatch(SetTransactionStatus{TransactionID: id, Status: status}).Err
}

func (s *Store) AdminSetClassFee(class string, fee float64) error {
	return s.Dispatch(SetClassFee{Class: class, Fee: fee}).Err
}

// AdminSetStudentCustomFee overrides a student's fee; nil restores the class fee.
func (s *Store) AdminSetStudentCustomFee(id string, fee *float64) error {
	return s.Dispatch(SetStudentCustomFee{UserID: id, Fee: fee}).Err
}

// Login makes an approved user current.
func (s *Store) Login(id, password string) error {
	if err := s.Dispatch(Login{UserID: id, Password: password}).Err; err != nil {
		return fmt.Errorf("login %s: %w", id, err)
	}
	s.log.Info("login", "user", id)
	return nil
}

func (s *Store) Logout() {
	s.Dispatch(Logout{})
}

package backend

import "encoding/json"

// Breakdown is the structured explanation the GPT backend returns for a
// focus word within a sentence.
type Breakdown struct {
	Sentence       string          `json:"sentence"`
	Focus          BreakdownFocus  `json:"focus"`
	Tokens         json.RawMessage `json:"tokens,omitempty"`
	GptExplanation string          `json:"gpt_explanation"`
}

// BreakdownFocus carries the dictionary-style data for the focus word.
type BreakdownFocus struct {
	Word     string   `json:"word"`
	Reading  string   `json:"reading,omitempty"`
	Meanings []string `json:"meanings,omitempty"`
	JLPT     string   `json:"jlpt,omitempty"`
}

// GptTemplate is a profile's custom system-message/prompt pair. ID is
// empty when creating a new template.
type GptTemplate struct {
	ID     string `json:"id,omitempty"`
	SysMsg string `json:"sysMsg"`
	Prompt string `json:"prompt"`
}

// ProfileFile is an uploaded media file owned by the profile.
type ProfileFile struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	GetURL   string `json:"get_url"`
	FileType string `json:"file_type"`
}

// ProfileTranscript is a stored transcription with its source audio.
type ProfileTranscript struct {
	ID               string `json:"id"`
	OriginalFileName string `json:"original_file_name,omitempty"`
	Transcript       string `json:"transcript"`
	GptExplanation   string `json:"gpt_explanation,omitempty"`
	GetURL           string `json:"get_url"`
}

// SaveClipResponse is the persistence backend's answer to a clip save.
type SaveClipResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ClipID  string `json:"clip_id,omitempty"`
}

// Clip is a previously saved clip as listed by the backend.
type Clip struct {
	ID                    string `json:"id"`
	GetURL                string `json:"get_url"`
	BreakdownResponse     string `json:"breakdown_response"`
	SentencePreview       string `json:"sentence_preview,omitempty"`
	GptExplanationPreview string `json:"gpt_explanation_preview,omitempty"`
}

// TranscriptionResponse carries generated SRT content.
type TranscriptionResponse struct {
	SrtContent string `json:"srt_content"`
}

// ConvertResponse points at a transcoded MP4.
type ConvertResponse struct {
	ConvertedVideoURL string `json:"converted_video_url"`
}

// AnkiExportResponse points at a generated Anki deck.
type AnkiExportResponse struct {
	AnkiDeckURL string `json:"anki_deck_url"`
}

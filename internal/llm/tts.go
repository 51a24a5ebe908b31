/**
* Name: 			tts.go
* Description: 		이름 발음 합성 (Google Cloud TTS)
 */

package llm

import (
	"context"
	"errors"

	"google.golang.org/api/option"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

// Synthesizer turns text into MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type TTSClient struct {
	client *texttospeech.Client
}

var _ Synthesizer = (*TTSClient)(nil)

func NewTTSClient(ctx context.Context, credentialsFile string) (*TTSClient, error) {
	if credentialsFile == "" {
		return nil, errors.New("NewTTSClient(): GOOGLE_APPLICATION_CREDENTIALS is not set")
	}
	client, err := texttospeech.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, errors.New("NewTTSClient(): failed to create TTS client: " + err.Error())
	}
	return &TTSClient{client: client}, nil
}

// 이름 한 개를 MP3로 변환
func (t *TTSClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: "en-US",
			SsmlGender:   texttospeechpb.SsmlVoiceGender_NEUTRAL,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  0.85,
		},
	}

	resp, err := t.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, errors.New("TTSClient.Synthesize(): SynthesizeSpeech failed: " + err.Error())
	}
	return resp.AudioContent, nil
}

func (t *TTSClient) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

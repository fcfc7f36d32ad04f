package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// Key identifies one user-facing message.
type Key string

const (
	KeyWelcome           Key = "welcome"
	KeyAskPrompt         Key = "ask_prompt"
	KeyPromptEmpty       Key = "prompt_empty"
	KeyPromptTooLong     Key = "prompt_too_long"
	KeyEnhanceOffer      Key = "enhance_offer"
	KeyEnhanceKeptOld    Key = "enhance_kept_old"
	KeyEnhanceFallback   Key = "enhance_fallback"
	KeyChooseReminder    Key = "choose_reminder"
	KeyAskReference      Key = "ask_reference"
	KeyAskUpload         Key = "ask_upload"
	KeyUploadReminder    Key = "upload_reminder"
	KeyReferenceInvalid  Key = "reference_invalid"
	KeyReferenceTooLarge Key = "reference_too_large"
	KeyGenerating        Key = "generating"
	KeyGenerateFailed    Key = "generate_failed"
	KeyResultCaption     Key = "result_caption"
	KeyBusy              Key = "busy"
	KeyCancelled         Key = "cancelled"
	KeyGoodbye           Key = "goodbye"
	KeyIdleHint          Key = "idle_hint"
	KeyMenuExpired       Key = "menu_expired"

	KeyBtnUseEnhanced     Key = "btn_use_enhanced"
	KeyBtnUseOriginal     Key = "btn_use_original"
	KeyBtnEnhanceAgain    Key = "btn_enhance_again"
	KeyBtnAttachReference Key = "btn_attach_reference"
	KeyBtnSkipReference   Key = "btn_skip_reference"
	KeyBtnRetry           Key = "btn_retry"
	KeyBtnRegenerate      Key = "btn_regenerate"
	KeyBtnEditPrompt      Key = "btn_edit_prompt"
	KeyBtnFinish          Key = "btn_finish"
)

var localeNames = []string{"en", "id"}

var supported = []language.Tag{language.English, language.Indonesian}

var matcher = language.NewMatcher(supported)

// Resolve maps a Telegram language code onto a supported locale. Unknown or
// unparseable codes land on the fallback.
func Resolve(code, fallback string) string {
	if code == "" {
		return normalize(fallback)
	}
	tag, err := language.Parse(code)
	if err != nil {
		return normalize(fallback)
	}
	if _, idx, conf := matcher.Match(tag); conf != language.No {
		return localeNames[idx]
	}
	return normalize(fallback)
}

func normalize(locale string) string {
	for _, name := range localeNames {
		if locale == name {
			return name
		}
	}
	return "en"
}

// T returns the message for key in the given locale, falling back to
// English for anything missing.
func T(locale string, key Key) string {
	if msgs, ok := catalog[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	return catalog["en"][key]
}

// Tf is T with fmt.Sprintf formatting applied.
func Tf(locale string, key Key, args ...any) string {
	return fmt.Sprintf(T(locale, key), args...)
}

var catalog = map[string]map[Key]string{
	"en": {
		KeyWelcome:           "👋 Hi! I turn text descriptions into images.\n\nDescribe the image you want me to create.",
		KeyAskPrompt:         "Describe the image you want me to create.",
		KeyPromptEmpty:       "I need a text description to work with. What should the image show?",
		KeyPromptTooLong:     "That description is too long for me (%d characters, the limit is %d). Please send a shorter one.",
		KeyEnhanceOffer:      "I reworked your description a little.\n\nYours:\n%s\n\nEnhanced:\n%s\n\nWhich one should I use?",
		KeyEnhanceKeptOld:    "I couldn't come up with a new variant, so the previous one still stands.",
		KeyEnhanceFallback:   "I couldn't enhance your description right now, so I'll use it as you wrote it.",
		KeyChooseReminder:    "Please pick one of the options below.",
		KeyAskReference:      "Do you want to attach a reference image to guide the result?",
		KeyAskUpload:         "Send me the reference image as a photo (JPEG, PNG or WebP, up to 20 MB).",
		KeyUploadReminder:    "I'm waiting for a reference photo. Send one, or /cancel to stop.",
		KeyReferenceInvalid:  "I can't use that as a reference. Send a JPEG, PNG or WebP photo.",
		KeyReferenceTooLarge: "That image is too large. Please send one under 20 MB.",
		KeyGenerating:        "🎨 Generating your image. This usually takes under a minute...",
		KeyGenerateFailed:    "Sorry, the generation didn't make it this time. Want to try again?",
		KeyResultCaption:     "Here's your image. What next?",
		KeyBusy:              "⏳ Still working on your previous request. Give me a moment.",
		KeyCancelled:         "Cancelled. Send /start whenever you want to create something.",
		KeyGoodbye:           "Glad you like it! Send /start to create another image.",
		KeyIdleHint:          "Send /start to begin.",
		KeyMenuExpired:       "That menu is no longer active.",

		KeyBtnUseEnhanced:     "Use enhanced",
		KeyBtnUseOriginal:     "Use mine",
		KeyBtnEnhanceAgain:    "Try another",
		KeyBtnAttachReference: "Attach a reference",
		KeyBtnSkipReference:   "Generate without one",
		KeyBtnRetry:           "Try again",
		KeyBtnRegenerate:      "New variation",
		KeyBtnEditPrompt:      "Edit description",
		KeyBtnFinish:          "I'm done",
	},
	"id": {
		KeyWelcome:           "👋 Halo! Saya mengubah deskripsi teks menjadi gambar.\n\nCeritakan gambar apa yang ingin kamu buat.",
		KeyAskPrompt:         "Ceritakan gambar apa yang ingin kamu buat.",
		KeyPromptEmpty:       "Saya butuh deskripsi teks. Gambarnya harus menampilkan apa?",
		KeyPromptTooLong:     "Deskripsinya terlalu panjang (%d karakter, batasnya %d). Coba kirim yang lebih singkat.",
		KeyEnhanceOffer:      "Deskripsimu sudah saya perkaya sedikit.\n\nVersimu:\n%s\n\nVersi baru:\n%s\n\nMau pakai yang mana?",
		KeyEnhanceKeptOld:    "Belum ada varian baru, jadi versi sebelumnya masih berlaku.",
		KeyEnhanceFallback:   "Deskripsimu belum bisa saya perkaya sekarang, jadi saya pakai apa adanya.",
		KeyChooseReminder:    "Silakan pilih salah satu opsi di bawah.",
		KeyAskReference:      "Mau melampirkan gambar referensi sebagai panduan hasilnya?",
		KeyAskUpload:         "Kirim gambar referensinya sebagai foto (JPEG, PNG, atau WebP, maksimal 20 MB).",
		KeyUploadReminder:    "Saya menunggu foto referensi. Kirim satu, atau /cancel untuk berhenti.",
		KeyReferenceInvalid:  "Itu tidak bisa dipakai sebagai referensi. Kirim foto JPEG, PNG, atau WebP.",
		KeyReferenceTooLarge: "Gambarnya terlalu besar. Kirim yang di bawah 20 MB ya.",
		KeyGenerating:        "🎨 Sedang membuat gambarmu. Biasanya kurang dari satu menit...",
		KeyGenerateFailed:    "Maaf, pembuatan gambarnya gagal kali ini. Mau coba lagi?",
		KeyResultCaption:     "Ini gambarmu. Selanjutnya apa?",
		KeyBusy:              "⏳ Permintaan sebelumnya masih diproses. Tunggu sebentar ya.",
		KeyCancelled:         "Dibatalkan. Kirim /start kapan saja untuk mulai membuat lagi.",
		KeyGoodbye:           "Senang kamu suka! Kirim /start untuk membuat gambar lain.",
		KeyIdleHint:          "Kirim /start untuk mulai.",
		KeyMenuExpired:       "Menu itu sudah tidak aktif.",

		KeyBtnUseEnhanced:     "Pakai versi baru",
		KeyBtnUseOriginal:     "Pakai versiku",
		KeyBtnEnhanceAgain:    "Coba varian lain",
		KeyBtnAttachReference: "Lampirkan referensi",
		KeyBtnSkipReference:   "Tanpa referensi",
		KeyBtnRetry:           "Coba lagi",
		KeyBtnRegenerate:      "Variasi baru",
		KeyBtnEditPrompt:      "Ubah deskripsi",
		KeyBtnFinish:          "Sudah cukup",
	},
}

package synth

// sizeTable gives the wavetable period, in samples, for each octave group.
// Higher groups trade period length for playback rate so every octave
// reads the same source waveform.
var sizeTable = [8]int{256, 256, 128, 128, 64, 32, 16, 8}

// freqTable is the tempered chromatic scale starting at C, in Hz.
var freqTable = [12]int{262, 277, 294, 311, 330, 349, 370, 392, 415, 440, 466, 494}

// panTable maps the 13 event pan steps onto the attenuation curve; 6 is
// acoustic center.
var panTable = [13]int{0, 43, 86, 129, 172, 215, 256, 297, 340, 383, 426, 469, 512}

// melodyFrequency computes the playback rate in Hz for one octave-group
// variant of a melody note. Finetune is centered at 1000 and shifts the
// rate additively.
func melodyFrequency(group int, pitch uint8, finetune uint16) int {
	return sizeTable[group]*freqTable[pitch%12]*(1<<group)/8 + int(finetune) - 1000
}

// percussionFrequency maps a percussion event pitch onto a playback rate.
func percussionFrequency(pitch uint8) int {
	return int(pitch)*800 + 100
}

// eventVolumeDB converts an event volume (0-127) to the scaled-decibel
// domain SetVolume consumes (-10000 silence, 0 unity).
func eventVolumeDB(volume uint8) int {
	return (int(volume)*100/127 - 255) * 8
}

// eventPanDB converts an event pan step (0-12) to a signed scaled-decibel
// attenuation; negative values duck the right ear, positive the left.
func eventPanDB(pan uint8) int {
	return (panTable[pan] - 256) * 10
}

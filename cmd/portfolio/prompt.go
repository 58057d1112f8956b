package main

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// errAborted is returned when the user interrupts a prompt.
var errAborted = errors.New("aborted")

type prompter interface {
	Input(message, def string, validate func(string) error) (string, error)
	Password(message string) (string, error)
	Select(message string, options []string, def string) (string, error)
	Edit(message, text string) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Input(message, def string, validate func(string) error) (string, error) {
	var out string
	var opts []survey.AskOpt
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return validate(s)
		}))
	}
	err := survey.AskOne(&survey.Input{Message: message, Default: def}, &out, opts...)
	return out, translateSurveyErr(err)
}

func (surveyPrompter) Password(message string) (string, error) {
	var out string
	err := survey.AskOne(&survey.Password{Message: message}, &out)
	return out, translateSurveyErr(err)
}

func (surveyPrompter) Select(message string, options []string, def string) (string, error) {
	var out string
	prompt := &survey.Select{Message: message, Options: options}
	for _, o := range options {
		if o == def {
			prompt.Default = def
			break
		}
	}
	err := survey.AskOne(prompt, &out)
	return out, translateSurveyErr(err)
}

func (surveyPrompter) Edit(message, text string) (string, error) {
	var out string
	prompt := &survey.Editor{
		Message:       message,
		Default:       text,
		AppendDefault: true,
		HideDefault:   true,
		FileName:      "resume*.json",
	}
	err := survey.AskOne(prompt, &out)
	return out, translateSurveyErr(err)
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}
